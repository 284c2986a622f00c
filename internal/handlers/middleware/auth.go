package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/errors"
)

const (
	// UserContextKey guarda o usuário autenticado
	UserContextKey = "current_user"
	// UserIDContextKey guarda o id do usuário autenticado
	UserIDContextKey = "user_id"
)

// Authenticator resolve um token de sessão no usuário dono
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entities.User, error)
}

// FailureFunc escreve a resposta de erro e aborta a requisição
type FailureFunc func(c *gin.Context, err error)

// RequireAuth exige "Authorization: Bearer <token>" válido de um usuário ativo
func RequireAuth(auth Authenticator, fail FailureFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			fail(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			fail(c, err)
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)
		c.Set(UserIDContextKey, user.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser devolve o usuário autenticado (nil fora de rotas protegidas)
func CurrentUser(c *gin.Context) *entities.User {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil
	}
	user, _ := value.(*entities.User)
	return user
}

// UserIDFromContext devolve o id do usuário autenticado
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(UserIDContextKey)
}
