package repositories

import (
	"context"
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
)

// NotificationRepository define a interface para persistência de notificações.
// Toda busca por ID é escopada ao dono.
type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	FindByIDForUser(ctx context.Context, id, userID string) (*entities.Notification, error)
	List(ctx context.Context, userID string, filters NotificationFilters) ([]*entities.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, n *entities.Notification) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	// DeleteForUser retorna false quando nada foi removido
	DeleteForUser(ctx context.Context, id, userID string) (bool, error)
}

// NotificationFilters contém filtros para listagem de notificações
type NotificationFilters struct {
	UnreadOnly bool
	Limit      int // default: 50
}
