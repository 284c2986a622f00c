package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
)

// MessageRepository implementa repositories.MessageRepository
type MessageRepository struct {
	repoBase
}

// NewMessageRepository cria um novo MessageRepository
func NewMessageRepository(db *gorm.DB, queryTimeout time.Duration) repositories.MessageRepository {
	return &MessageRepository{repoBase{db: db, timeout: queryTimeout}}
}

func (r *MessageRepository) Create(ctx context.Context, msg *entities.Message) error {
	model := &MessageModel{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Body:           msg.Body,
		IsRead:         msg.IsRead,
		ReadAt:         toNanosPtr(msg.ReadAt),
		CreatedAt:      toNanos(msg.CreatedAt),
	}

	if err := r.run(ctx, func(db *gorm.DB) error {
		return db.Create(model).Error
	}); err != nil {
		return err
	}

	msg.ID = model.ID
	msg.CreatedAt = fromNanos(model.CreatedAt)
	msg.UpdatedAt = fromNanos(model.UpdatedAt)
	return nil
}

func (r *MessageRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entities.Message, error) {
	result := make(map[string]*entities.Message, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []*MessageModel
	if err := r.run(ctx, func(db *gorm.DB) error {
		return db.Where("id IN ?", ids).Find(&models).Error
	}); err != nil {
		return nil, err
	}

	for _, model := range models {
		result[model.ID] = toMessageEntity(model)
	}
	return result, nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*entities.Message, error) {
	var models []*MessageModel

	if err := r.run(ctx, func(db *gorm.DB) error {
		return db.Where("conversation_id = ?", conversationID).
			Order("created_at ASC").
			Find(&models).Error
	}); err != nil {
		return nil, err
	}

	msgs := make([]*entities.Message, 0, len(models))
	for _, model := range models {
		msgs = append(msgs, toMessageEntity(model))
	}
	return msgs, nil
}

// MarkConversationRead só toca mensagens ainda não lidas, preservando read_at
func (r *MessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	var affected int64

	err := r.run(ctx, func(db *gorm.DB) error {
		res := db.Model(&MessageModel{}).
			Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
			Updates(map[string]any{
				"is_read": true,
				"read_at": at.UnixNano(),
			})
		affected = res.RowsAffected
		return res.Error
	})

	return affected, err
}

func toMessageEntity(model *MessageModel) *entities.Message {
	return &entities.Message{
		ID:             model.ID,
		ConversationID: model.ConversationID,
		SenderID:       model.SenderID,
		Body:           model.Body,
		IsRead:         model.IsRead,
		ReadAt:         fromNanosPtr(model.ReadAt),
		CreatedAt:      fromNanos(model.CreatedAt),
		UpdatedAt:      fromNanos(model.UpdatedAt),
	}
}
