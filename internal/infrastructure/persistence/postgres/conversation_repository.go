package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
)

// ConversationRepository implementa repositories.ConversationRepository
type ConversationRepository struct {
	repoBase
}

// NewConversationRepository cria um novo ConversationRepository
func NewConversationRepository(db *gorm.DB, queryTimeout time.Duration) repositories.ConversationRepository {
	return &ConversationRepository{repoBase{db: db, timeout: queryTimeout}}
}

func (r *ConversationRepository) Create(ctx context.Context, conv *entities.Conversation) error {
	model := &ConversationModel{
		ID:            conv.ID,
		ParticipantA:  conv.Participants[0],
		ParticipantB:  conv.Participants[1],
		LastMessageID: conv.LastMessageID,
		LastMessageAt: toNanos(conv.LastMessageAt),
	}

	if err := r.run(ctx, func(db *gorm.DB) error {
		return db.Create(model).Error
	}); err != nil {
		return err
	}

	conv.ID = model.ID
	conv.CreatedAt = fromNanos(model.CreatedAt)
	conv.UpdatedAt = fromNanos(model.UpdatedAt)
	return nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*entities.Conversation, error) {
	return r.findOne(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("id = ?", id)
	})
}

// FindByParticipants devolve a conversa mais antiga entre o par, se houver
// mais de uma (criação concorrente).
func (r *ConversationRepository) FindByParticipants(ctx context.Context, userA, userB string) (*entities.Conversation, error) {
	return r.findOne(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where(
			"(participant_a = ? AND participant_b = ?) OR (participant_a = ? AND participant_b = ?)",
			userA, userB, userB, userA,
		).Order("created_at ASC")
	})
}

func (r *ConversationRepository) findOne(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*entities.Conversation, error) {
	var model ConversationModel

	err := r.run(ctx, func(conn *gorm.DB) error {
		return conn.Scopes(scope).First(&model).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return toConversationEntity(&model), nil
}

func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]*entities.Conversation, error) {
	var models []*ConversationModel

	err := r.run(ctx, func(conn *gorm.DB) error {
		return conn.Where("participant_a = ? OR participant_b = ?", userID, userID).
			Order("last_message_at DESC").
			Order("created_at DESC").
			Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	convs := make([]*entities.Conversation, 0, len(models))
	for _, model := range models {
		convs = append(convs, toConversationEntity(model))
	}
	return convs, nil
}

func (r *ConversationRepository) UpdateLastMessage(ctx context.Context, conversationID, messageID string, at time.Time) error {
	return r.run(ctx, func(conn *gorm.DB) error {
		return conn.Model(&ConversationModel{}).
			Where("id = ?", conversationID).
			Updates(map[string]any{
				"last_message_id": messageID,
				"last_message_at": toNanos(at),
			}).Error
	})
}

func toConversationEntity(model *ConversationModel) *entities.Conversation {
	return &entities.Conversation{
		ID:            model.ID,
		Participants:  [2]string{model.ParticipantA, model.ParticipantB},
		LastMessageID: model.LastMessageID,
		LastMessageAt: fromNanos(model.LastMessageAt),
		CreatedAt:     fromNanos(model.CreatedAt),
		UpdatedAt:     fromNanos(model.UpdatedAt),
	}
}
