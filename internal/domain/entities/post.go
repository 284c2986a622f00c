package entities

import (
	"errors"
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

// Limites de texto de uma publicação
const (
	MaxPostTitleLength       = 100
	MaxPostDescriptionLength = 1000
	MaxPostPhotos            = 10
)

// Post representa uma peça publicada para troca
type Post struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Size        Size
	Gender      Gender
	State       State
	Photos      []string
	Location    *valueobjects.GeoPoint
	UserID      string
	IsAvailable bool
	IsFeatured  bool
	Views       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy verifica se a publicação pertence ao usuário
func (p *Post) IsOwnedBy(userID string) bool {
	return p.UserID == userID
}

// Validate valida regras de negócio da entidade Post
func (p *Post) Validate() error {
	if p.Title == "" || len([]rune(p.Title)) > MaxPostTitleLength {
		return errors.New("invalid title")
	}
	if p.Description == "" || len([]rune(p.Description)) > MaxPostDescriptionLength {
		return errors.New("invalid description")
	}
	if !p.Category.IsValid() {
		return errors.New("invalid category")
	}
	if !p.Size.IsValid() {
		return errors.New("invalid size")
	}
	if !p.Gender.IsValid() {
		return errors.New("invalid gender")
	}
	if !p.State.IsValid() {
		return errors.New("invalid state")
	}
	if len(p.Photos) == 0 {
		return errors.New("at least one photo is required")
	}
	return nil
}
