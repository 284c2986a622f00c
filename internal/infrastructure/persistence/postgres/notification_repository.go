package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
)

const defaultNotificationLimit = 50

// NotificationRepository implementa repositories.NotificationRepository
type NotificationRepository struct {
	repoBase
}

// NewNotificationRepository cria um novo NotificationRepository
func NewNotificationRepository(db *gorm.DB, queryTimeout time.Duration) repositories.NotificationRepository {
	return &NotificationRepository{repoBase{db: db, timeout: queryTimeout}}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	model := toNotificationModel(n)

	if err := r.run(ctx, func(db *gorm.DB) error {
		return db.Create(model).Error
	}); err != nil {
		return err
	}

	n.ID = model.ID
	n.CreatedAt = fromNanos(model.CreatedAt)
	n.UpdatedAt = fromNanos(model.UpdatedAt)
	return nil
}

func (r *NotificationRepository) FindByIDForUser(ctx context.Context, id, userID string) (*entities.Notification, error) {
	var model NotificationModel

	err := r.run(ctx, func(db *gorm.DB) error {
		return db.Where("id = ? AND user_id = ?", id, userID).First(&model).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return toNotificationEntity(&model), nil
}

func (r *NotificationRepository) List(ctx context.Context, userID string, filters repositories.NotificationFilters) ([]*entities.Notification, error) {
	limit := filters.Limit
	if limit < 1 {
		limit = defaultNotificationLimit
	}

	var models []*NotificationModel
	err := r.run(ctx, func(db *gorm.DB) error {
		query := db.Where("user_id = ?", userID)
		if filters.UnreadOnly {
			query = query.Where("is_read = ?", false)
		}
		return query.Order("created_at DESC").Limit(limit).Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	list := make([]*entities.Notification, 0, len(models))
	for _, model := range models {
		list = append(list, toNotificationEntity(model))
	}
	return list, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.run(ctx, func(db *gorm.DB) error {
		return db.Model(&NotificationModel{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Count(&count).Error
	})
	return count, err
}

func (r *NotificationRepository) Update(ctx context.Context, n *entities.Notification) error {
	model := toNotificationModel(n)

	if err := r.run(ctx, func(db *gorm.DB) error {
		return db.Save(model).Error
	}); err != nil {
		return err
	}

	n.UpdatedAt = fromNanos(model.UpdatedAt)
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	var affected int64

	err := r.run(ctx, func(db *gorm.DB) error {
		res := db.Model(&NotificationModel{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Updates(map[string]any{
				"is_read": true,
				"read_at": at.UnixNano(),
			})
		affected = res.RowsAffected
		return res.Error
	})

	return affected, err
}

func (r *NotificationRepository) DeleteForUser(ctx context.Context, id, userID string) (bool, error) {
	var affected int64

	err := r.run(ctx, func(db *gorm.DB) error {
		res := db.Where("id = ? AND user_id = ?", id, userID).Delete(&NotificationModel{})
		affected = res.RowsAffected
		return res.Error
	})

	return affected > 0, err
}

func toNotificationModel(n *entities.Notification) *NotificationModel {
	var metadata datatypes.JSONMap
	if n.Metadata != nil {
		metadata = datatypes.JSONMap(n.Metadata)
	}

	return &NotificationModel{
		ID:                    n.ID,
		UserID:                n.UserID,
		Type:                  string(n.Type),
		Title:                 n.Title,
		Body:                  n.Body,
		RelatedUserID:         n.RelatedUserID,
		RelatedPostID:         n.RelatedPostID,
		RelatedConversationID: n.RelatedConversationID,
		IsRead:                n.IsRead,
		ReadAt:                toNanosPtr(n.ReadAt),
		Metadata:              metadata,
		CreatedAt:             toNanos(n.CreatedAt),
		UpdatedAt:             toNanos(n.UpdatedAt),
	}
}

func toNotificationEntity(model *NotificationModel) *entities.Notification {
	var metadata map[string]any
	if len(model.Metadata) > 0 {
		metadata = map[string]any(model.Metadata)
	}

	return &entities.Notification{
		ID:                    model.ID,
		UserID:                model.UserID,
		Type:                  entities.NotificationType(model.Type),
		Title:                 model.Title,
		Body:                  model.Body,
		RelatedUserID:         model.RelatedUserID,
		RelatedPostID:         model.RelatedPostID,
		RelatedConversationID: model.RelatedConversationID,
		IsRead:                model.IsRead,
		ReadAt:                fromNanosPtr(model.ReadAt),
		Metadata:              metadata,
		CreatedAt:             fromNanos(model.CreatedAt),
		UpdatedAt:             fromNanos(model.UpdatedAt),
	}
}
