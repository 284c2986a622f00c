package ports

// Translator traduz message IDs (implementado pelo serviço de i18n)
type Translator interface {
	T(lang, key string, params ...map[string]interface{}) string
	GetDefaultLanguage() string
}
