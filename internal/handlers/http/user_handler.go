package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/handlers/dto"
	"github.com/rafabene/revistete-backend/internal/handlers/middleware"
	"github.com/rafabene/revistete-backend/internal/services"
)

// UserHandler lida com requisições HTTP relacionadas a usuários
type UserHandler struct {
	userService *services.UserService
	errs        *ErrorResponder
}

// NewUserHandler cria um novo UserHandler
func NewUserHandler(userService *services.UserService, errs *ErrorResponder) *UserHandler {
	return &UserHandler{
		userService: userService,
		errs:        errs,
	}
}

// GetPublicProfile busca um usuário e suas publicações disponíveis
//
//	@Summary	Perfil público
//	@Tags		users
//	@Produce	json
//	@Param		id	path		string	true	"ID do usuário"
//	@Success	200	{object}	dto.PublicProfileResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/users/{id} [get]
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.userService.GetPublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PublicProfileResponse{
		Envelope: dto.Envelope{Success: true},
		User:     dto.ToUserResponse(profile.User),
		Posts:    dto.ToPostResponses(profile.Posts),
	})
}

// UpdateProfile altera nome, telefone, endereço e localização do chamador
//
//	@Summary	Atualizar perfil
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.UpdateProfileRequest	true	"Campos alterados"
//	@Success	200		{object}	dto.UserEnvelope
//	@Failure	400		{object}	dto.ErrorResponse
//	@Router		/users/update [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.RespondBinding(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), req.ToInput(middleware.UserIDFromContext(c)))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserEnvelope{
		Envelope: dto.OK(c, "user.updated"),
		User:     dto.ToUserResponse(user),
	})
}
