package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/handlers/middleware"
)

// T traduz uma chave no idioma da requisição.
// Uso: dto.T(c, "notification.all_marked_read", map[string]interface{}{"Count": 3})
func T(c *gin.Context, key string, params ...map[string]interface{}) string {
	translator := translatorFrom(c)
	if translator == nil {
		return key
	}
	return translator.T(GetLanguage(c), key, params...)
}

// GetLanguage retorna o idioma detectado para a requisição
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(middleware.LanguageContextKey); lang != "" {
		return lang
	}
	if translator := translatorFrom(c); translator != nil {
		return translator.GetDefaultLanguage()
	}
	return "es"
}

func translatorFrom(c *gin.Context) ports.Translator {
	value, exists := c.Get(middleware.I18nServiceContextKey)
	if !exists {
		return nil
	}
	translator, _ := value.(ports.Translator)
	return translator
}
