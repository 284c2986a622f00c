package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/domain/ports"
)

const (
	// LanguageContextKey é a chave usada para armazenar o idioma no contexto do Gin
	LanguageContextKey = "language"
	// I18nServiceContextKey é a chave usada para armazenar o tradutor no contexto
	I18nServiceContextKey = "i18n_service"
)

// Catalog é o tradutor com a lista de idiomas carregados
type Catalog interface {
	ports.Translator
	IsLanguageSupported(lang string) bool
	GetSupportedLanguages() []string
}

// I18nMiddleware gerencia a detecção de idioma nas requisições
type I18nMiddleware struct {
	catalog Catalog
}

// NewI18nMiddleware cria um novo middleware de i18n
func NewI18nMiddleware(catalog Catalog) *I18nMiddleware {
	return &I18nMiddleware{catalog: catalog}
}

// DetectLanguage detecta e configura o idioma da requisição
// Prioridade:
// 1. Query parameter ?lang=pt-BR (override explícito)
// 2. Accept-Language header (preferência do browser)
// 3. Idioma padrão (fallback)
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := m.resolve(c.Query("lang"))

		if lang == "" {
			lang = m.parseAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		if lang == "" {
			lang = m.catalog.GetDefaultLanguage()
		}

		c.Set(LanguageContextKey, lang)
		c.Set(I18nServiceContextKey, ports.Translator(m.catalog))
		c.Header("Content-Language", lang)

		c.Next()
	}
}

// parseAcceptLanguage analisa o header Accept-Language e retorna o melhor idioma suportado
// Exemplo: "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7" -> "pt-BR"
func (m *I18nMiddleware) parseAcceptLanguage(acceptLang string) string {
	if acceptLang == "" {
		return ""
	}

	for _, lang := range strings.Split(acceptLang, ",") {
		lang, _, _ = strings.Cut(strings.TrimSpace(lang), ";")
		if resolved := m.resolve(lang); resolved != "" {
			return resolved
		}
	}

	return ""
}

// resolve aceita o idioma exato, a base sem região (es-AR -> es) ou a
// variante regional carregada para a base (pt -> pt-BR)
func (m *I18nMiddleware) resolve(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" || lang == "*" {
		return ""
	}
	if m.catalog.IsLanguageSupported(lang) {
		return lang
	}

	base, _, _ := strings.Cut(lang, "-")
	if m.catalog.IsLanguageSupported(base) {
		return base
	}
	for _, supported := range m.catalog.GetSupportedLanguages() {
		if strings.EqualFold(strings.SplitN(supported, "-", 2)[0], base) {
			return supported
		}
	}
	return ""
}
