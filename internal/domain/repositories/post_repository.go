package repositories

import (
	"context"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
)

// PostRepository define a interface para persistência de publicações
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) error
	FindByID(ctx context.Context, id string) (*entities.Post, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*entities.Post, error)
	Update(ctx context.Context, post *entities.Post) error
	Delete(ctx context.Context, id string) error
	// List devolve a página pedida e o total de registros que casam com os filtros
	List(ctx context.Context, filters PostFilters) ([]*entities.Post, int64, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*entities.Post, error)
	IncrementViews(ctx context.Context, id string) error
}

// PostFilters contém filtros para listagem de publicações.
// A listagem sempre se restringe a publicações disponíveis.
type PostFilters struct {
	Category *entities.Category
	Size     *entities.Size
	Gender   *entities.Gender
	State    *entities.State
	Featured *bool
	Search   string
	Page     int // Página (começa em 1)
	Limit    int // Itens por página (default: 20, max: 100)
}

// Normalize aplica os valores padrão de paginação
func (f *PostFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}
