package services

import (
	"context"
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/infrastructure/messaging"
	"github.com/rafabene/revistete-backend/internal/infrastructure/metrics"
)

// DefaultNotificationLimit é o tamanho padrão da listagem
const DefaultNotificationLimit = 50

// NotificationService gerencia as notificações de cada usuário
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	postRepo         repositories.PostRepository
	events           ports.EventPublisher
	logger           ports.Logger
	now              func() time.Time
}

// NewNotificationService cria um novo NotificationService
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	events ports.EventPublisher,
	logger ports.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		postRepo:         postRepo,
		events:           events,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// CreateNotificationInput descreve uma notificação gerada por outra operação
type CreateNotificationInput struct {
	UserID                string
	Type                  entities.NotificationType
	Title                 string
	Body                  string
	RelatedUserID         *string
	RelatedPostID         *string
	RelatedConversationID *string
	Metadata              map[string]any
}

// NotificationView é uma notificação com os resumos do usuário e da
// publicação relacionados
type NotificationView struct {
	Notification *entities.Notification
	RelatedUser  *entities.User
	RelatedPost  *entities.Post
}

// NotificationList é uma página de notificações com o total de não lidas
type NotificationList struct {
	Items       []*NotificationView
	UnreadCount int64
}

// NotificationCreatedEvent é o payload publicado no broker
type NotificationCreatedEvent struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
}

// Create grava a notificação. Nunca devolve erro: falhas são registradas
// em log e o resultado é nil, para não afetar a operação de origem.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) *entities.Notification {
	var err error
	ctx, end := startSpan(ctx, "NotificationService.Create")
	defer func() { end(err) }()

	if input.UserID == "" {
		s.logger.Error("notification skipped: missing target user", "type", input.Type)
		metrics.ObserveNotification(string(input.Type), "skipped")
		return nil
	}
	if !input.Type.IsValid() {
		s.logger.Error("notification skipped: invalid type", "type", input.Type, "user_id", input.UserID)
		metrics.ObserveNotification("invalid", "skipped")
		return nil
	}

	n := &entities.Notification{
		UserID:                input.UserID,
		Type:                  input.Type,
		Title:                 input.Title,
		Body:                  input.Body,
		RelatedUserID:         input.RelatedUserID,
		RelatedPostID:         input.RelatedPostID,
		RelatedConversationID: input.RelatedConversationID,
		Metadata:              input.Metadata,
	}
	if err = s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error("failed to create notification", "user_id", input.UserID, "type", input.Type, "error", err)
		metrics.ObserveNotification(string(input.Type), "failed")
		return nil
	}

	metrics.ObserveNotification(string(n.Type), "created")
	s.logger.Debug("notification created", "notification_id", n.ID, "user_id", n.UserID, "type", n.Type)

	if s.events != nil {
		event := messaging.NewEvent(messaging.RoutingKeyNotificationCreated, NotificationCreatedEvent{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Type:           string(n.Type),
			Title:          n.Title,
		})
		if pubErr := s.events.Publish(ctx, messaging.RoutingKeyNotificationCreated, event); pubErr != nil {
			s.logger.Warn("failed to publish notification event", "notification_id", n.ID, "error", pubErr)
		}
	}
	return n
}

// List devolve as notificações mais recentes primeiro, e o total de não lidas
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) (*NotificationList, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}

	items, err := s.notificationRepo.List(ctx, userID, repositories.NotificationFilters{
		UnreadOnly: unreadOnly,
		Limit:      limit,
	})
	if err != nil {
		return nil, errors.Internal(err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	views, err := s.hydrate(ctx, items)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Items: views, UnreadCount: unread}, nil
}

// MarkRead marca uma notificação do usuário como lida
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*NotificationView, error) {
	n, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if !n.IsRead {
		n.MarkRead(s.now())
		if err := s.notificationRepo.Update(ctx, n); err != nil {
			return nil, errors.Internal(err)
		}
	}

	views, err := s.hydrate(ctx, []*entities.Notification{n})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// MarkAllRead marca todas as não lidas com o mesmo timestamp e devolve
// quantas foram afetadas
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, errors.Internal(err)
	}
	return count, nil
}

// Delete remove uma notificação do usuário
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	if err := validateID("id", id); err != nil {
		return errors.ErrNotificationNotFound
	}

	deleted, err := s.notificationRepo.DeleteForUser(ctx, id, userID)
	if err != nil {
		return errors.Internal(err)
	}
	if !deleted {
		return errors.ErrNotificationNotFound
	}
	return nil
}

// UnreadCount devolve o total de notificações não lidas do usuário
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.Internal(err)
	}
	return count, nil
}

// findOwned trata ID malformado, inexistente e de outro usuário da mesma forma
func (s *NotificationService) findOwned(ctx context.Context, id, userID string) (*entities.Notification, error) {
	if err := validateID("id", id); err != nil {
		return nil, errors.ErrNotificationNotFound
	}

	n, err := s.notificationRepo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if n == nil {
		return nil, errors.ErrNotificationNotFound
	}
	return n, nil
}

func (s *NotificationService) hydrate(ctx context.Context, items []*entities.Notification) ([]*NotificationView, error) {
	var userIDs, postIDs []string
	for _, n := range items {
		if n.RelatedUserID != nil {
			userIDs = append(userIDs, *n.RelatedUserID)
		}
		if n.RelatedPostID != nil {
			postIDs = append(postIDs, *n.RelatedPostID)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, errors.Internal(err)
	}
	posts, err := s.postRepo.FindByIDs(ctx, postIDs)
	if err != nil {
		return nil, errors.Internal(err)
	}

	views := make([]*NotificationView, 0, len(items))
	for _, n := range items {
		v := &NotificationView{Notification: n}
		if n.RelatedUserID != nil {
			v.RelatedUser = users[*n.RelatedUserID]
		}
		if n.RelatedPostID != nil {
			v.RelatedPost = posts[*n.RelatedPostID]
		}
		views = append(views, v)
	}
	return views, nil
}
