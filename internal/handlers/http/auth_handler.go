package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/handlers/dto"
	"github.com/rafabene/revistete-backend/internal/handlers/middleware"
	"github.com/rafabene/revistete-backend/internal/services"
)

// AuthHandler lida com cadastro, login e sessão
type AuthHandler struct {
	authService *services.AuthService
	errs        *ErrorResponder
}

// NewAuthHandler cria um novo AuthHandler
func NewAuthHandler(authService *services.AuthService, errs *ErrorResponder) *AuthHandler {
	return &AuthHandler{authService: authService, errs: errs}
}

// Register cria uma conta e devolve um token de sessão
//
//	@Summary	Cadastrar usuário
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		dto.RegisterRequest	true	"Dados de cadastro"
//	@Success	201		{object}	dto.AuthResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Router		/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.RespondBinding(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Envelope:  dto.OK(c, "auth.registered"),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.ToUserResponse(result.User),
	})
}

// Login autentica por email e senha
//
//	@Summary	Login
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		dto.LoginRequest	true	"Credenciais"
//	@Success	200		{object}	dto.AuthResponse
//	@Failure	401		{object}	dto.ErrorResponse
//	@Router		/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.RespondBinding(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Envelope:  dto.OK(c, "auth.logged_in"),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.ToUserResponse(result.User),
	})
}

// Me devolve o perfil do usuário autenticado
//
//	@Summary	Perfil do usuário autenticado
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.UserEnvelope
//	@Failure	401	{object}	dto.ErrorResponse
//	@Router		/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetSelf(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserEnvelope{
		Envelope: dto.Envelope{Success: true},
		User:     dto.ToUserResponse(user),
	})
}
