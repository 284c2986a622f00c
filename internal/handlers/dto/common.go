package dto

import (
	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/handlers/middleware"
)

// BaseURLContextKey guarda a URL base usada nos tipos de problema
const BaseURLContextKey = middleware.BaseURLContextKey

// Envelope é o formato base de toda resposta da API
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK monta um envelope de sucesso com mensagem traduzida opcional
func OK(c *gin.Context, messageKey string, params ...map[string]interface{}) Envelope {
	env := Envelope{Success: true}
	if messageKey != "" {
		env.Message = T(c, messageKey, params...)
	}
	return env
}

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs) dentro do envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*problems.Problem
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
	Value   string `json:"value,omitempty"`
}

// NewErrorResponse cria uma resposta de erro com título e detalhe já traduzidos
func NewErrorResponse(c *gin.Context, problemType, title string, status int, detail string) ErrorResponse {
	baseURL := c.GetString(BaseURLContextKey)
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	return ErrorResponse{
		Success: false,
		Message: detail,
		Problem: &problems.Problem{
			Type:     baseURL + problemType,
			Title:    title,
			Status:   status,
			Detail:   detail,
			Instance: c.Request.URL.Path,
		},
	}
}

// NewErrorResponseI18n cria uma resposta de erro usando i18n
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, detailKey string, status int, params ...map[string]interface{}) ErrorResponse {
	return NewErrorResponse(c, problemType, T(c, titleKey, params...), status, T(c, detailKey, params...))
}

// ValidationErrorResponseI18n cria uma resposta de erro de validação
func ValidationErrorResponseI18n(c *gin.Context, detailKey string, validationErrors []ValidationError) ErrorResponse {
	if detailKey == "" {
		detailKey = "error.validation.detail"
	}
	response := NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeValidation,
		"error.validation.title",
		detailKey,
		400,
	)
	response.Errors = validationErrors
	return response
}

// BadRequestResponseI18n cria uma resposta 400 para corpo ilegível
func BadRequestResponseI18n(c *gin.Context, detailKey string, params ...map[string]interface{}) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeBadRequest,
		"error.bad_request.title",
		detailKey,
		400,
		params...,
	)
}

// FieldErrors traduz os erros de campo do domínio
func FieldErrors(c *gin.Context, fields []domainerrors.FieldError) []ValidationError {
	if len(fields) == 0 {
		return nil
	}
	out := make([]ValidationError, 0, len(fields))
	for _, f := range fields {
		out = append(out, ValidationError{
			Field: f.Field,
			Message: T(c, f.Message, map[string]interface{}{
				"Field": f.Field,
				"Param": f.Param,
			}),
			Tag:   f.Tag,
			Value: f.Value,
		})
	}
	return out
}
