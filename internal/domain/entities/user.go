package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

// User representa um usuário do marketplace
type User struct {
	ID           string
	Email        valueobjects.Email
	Name         string
	PasswordHash string
	Phone        string
	Address      string
	Location     *valueobjects.GeoPoint
	AvatarURL    *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // Soft delete
}

// CanAuthenticate indica se o usuário pode iniciar ou manter uma sessão
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsDeleted()
}

// IsDeleted verifica se o usuário foi deletado (soft delete)
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Validate valida regras de negócio da entidade User
func (u *User) Validate() error {
	if u.Email.IsZero() {
		return errors.New("email is required")
	}

	name := strings.TrimSpace(u.Name)
	if name == "" {
		return errors.New("name is required")
	}

	if len([]rune(name)) < 2 {
		return errors.New("name must be at least 2 characters")
	}

	if strings.TrimSpace(u.Phone) == "" {
		return errors.New("phone is required")
	}

	if strings.TrimSpace(u.Address) == "" {
		return errors.New("address is required")
	}

	return nil
}
