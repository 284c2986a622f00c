package services

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

// Limites dos campos de cadastro
const (
	MinNameLength     = 2
	MaxNameLength     = 50
	MinPasswordLength = 6
)

// AuthService cuida de cadastro, login e verificação de sessão
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenManager
	logger   ports.Logger
}

// NewAuthService cria um novo AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
	logger ports.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterInput representa os dados de cadastro
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// AuthResult é devolvido por cadastro e login
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entities.User
}

// Register cria o usuário e emite um token de sessão
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email, err := validateRegistration(&input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("registering user", "email", email.String())

	existing, err := s.userRepo.FindByEmail(ctx, email.String())
	if err != nil {
		return nil, errors.Internal(err)
	}
	if existing != nil {
		return nil, errors.ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Internal(err)
	}

	user := &entities.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: hash,
		Phone:        input.Phone,
		Address:      input.Address,
		IsActive:     true,
	}

	// a unicidade também é garantida pelo índice; uma corrida entre a
	// busca e o insert chega aqui como ErrEmailAlreadyExists
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal(err)
	}

	return s.issue(user)
}

func validateRegistration(input *RegisterInput) (valueobjects.Email, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Address = strings.TrimSpace(input.Address)

	var fields []errors.FieldError
	switch n := utf8.RuneCountInString(input.Name); {
	case n == 0:
		fields = append(fields, fieldError("name", "required", "", ""))
	case n < MinNameLength:
		fields = append(fields, fieldError("name", "min", strconv.Itoa(MinNameLength), input.Name))
	case n > MaxNameLength:
		fields = append(fields, fieldError("name", "max", strconv.Itoa(MaxNameLength), input.Name))
	}

	email, emailErr := valueobjects.NewEmail(input.Email)
	if strings.TrimSpace(input.Email) == "" {
		fields = append(fields, fieldError("email", "required", "", ""))
	} else if emailErr != nil {
		fields = append(fields, fieldError("email", "email", "", input.Email))
	}

	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		fields = append(fields, fieldError("password", "min", strconv.Itoa(MinPasswordLength), ""))
	}
	if input.Phone == "" {
		fields = append(fields, fieldError("phone", "required", "", ""))
	}
	if input.Address == "" {
		fields = append(fields, fieldError("address", "required", "", ""))
	}

	if len(fields) > 0 {
		return valueobjects.Email{}, errors.NewValidation("error.validation.detail", fields...)
	}
	return email, nil
}

// Login verifica as credenciais. E-mail desconhecido, conta desativada e
// senha incorreta devolvem o mesmo erro.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	parsed, err := valueobjects.NewEmail(email)
	if err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, parsed.String())
	if err != nil {
		return nil, errors.Internal(err)
	}
	if user == nil || !user.CanAuthenticate() {
		s.logger.Info("login rejected", "email", parsed.String())
		return nil, errors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", "email", parsed.String())
		return nil, errors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *entities.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate valida o token e recarrega o usuário. Qualquer motivo de
// rejeição resulta em ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, errors.ErrUnauthorized
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}
	if validateID("sub", userID) != nil {
		return nil, errors.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if user == nil || !user.CanAuthenticate() {
		return nil, errors.ErrUnauthorized
	}
	return user, nil
}

// GetSelf devolve o perfil do usuário autenticado
func (s *AuthService) GetSelf(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}
