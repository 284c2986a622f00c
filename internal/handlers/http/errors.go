package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/handlers/dto"
)

// ErrorResponder converte erros de domínio em respostas RFC 7807 traduzidas
type ErrorResponder struct {
	logger ports.Logger
	// exposeInternal inclui a causa no detail de erros 500 (fora de produção)
	exposeInternal bool
}

// NewErrorResponder cria um ErrorResponder
func NewErrorResponder(logger ports.Logger, exposeInternal bool) *ErrorResponder {
	return &ErrorResponder{logger: logger, exposeInternal: exposeInternal}
}

// Respond escreve a resposta de erro e aborta a cadeia de handlers
func (r *ErrorResponder) Respond(c *gin.Context, err error) {
	_ = c.Error(err)

	var de *errors.DomainError
	if !errors.As(err, &de) {
		de = errors.Internal(err).(*errors.DomainError)
	}

	var response dto.ErrorResponse
	switch de.Kind {
	case errors.KindValidation:
		response = dto.ValidationErrorResponseI18n(c, de.Message, dto.FieldErrors(c, de.Fields))
	case errors.KindAuth, errors.KindSession:
		response = dto.NewErrorResponseI18n(c, errors.ProblemTypeUnauthorized, "error.unauthorized.title", de.Message, http.StatusUnauthorized)
	case errors.KindAuthorization:
		response = dto.NewErrorResponseI18n(c, errors.ProblemTypeForbidden, "error.forbidden.title", de.Message, http.StatusForbidden)
	case errors.KindNotFound:
		response = dto.NewErrorResponseI18n(c, errors.ProblemTypeNotFound, "error.not_found.title", de.Message, http.StatusNotFound)
	case errors.KindConflict:
		response = dto.NewErrorResponseI18n(c, errors.ProblemTypeConflict, "error.conflict.title", de.Message, http.StatusBadRequest)
	case errors.KindTransient:
		r.logger.Warn("upstream timeout", "path", c.Request.URL.Path, "error", err)
		response = dto.NewErrorResponseI18n(c, errors.ProblemTypeUnavailable, "error.unavailable.title", errors.ErrUpstreamTimeout.Message, http.StatusInternalServerError)
	default:
		r.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		detail := dto.T(c, "error.internal.detail")
		if r.exposeInternal && de.Err != nil {
			detail += ": " + de.Err.Error()
		}
		response = dto.NewErrorResponse(c, errors.ProblemTypeInternal, dto.T(c, "error.internal.title"), http.StatusInternalServerError, detail)
	}

	c.AbortWithStatusJSON(response.Status, response)
}

// RespondBinding trata falhas do ShouldBind: erros por campo viram 400 de
// validação, o resto é corpo ilegível
func (r *ErrorResponder) RespondBinding(c *gin.Context, err error) {
	_ = c.Error(err)
	if fields, ok := dto.BindingErrors(c, err); ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ValidationErrorResponseI18n(c, "", fields))
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.BadRequestResponseI18n(c, "error.invalid_body"))
}
