package repositories

import (
	"context"
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
)

// ConversationRepository define a interface para persistência de conversas
type ConversationRepository interface {
	Create(ctx context.Context, conv *entities.Conversation) error
	FindByID(ctx context.Context, id string) (*entities.Conversation, error)
	// FindByParticipants busca a conversa entre os dois usuários em qualquer ordem
	FindByParticipants(ctx context.Context, userA, userB string) (*entities.Conversation, error)
	// ListByParticipant ordena pela última atividade, mais recente primeiro
	ListByParticipant(ctx context.Context, userID string) ([]*entities.Conversation, error)
	UpdateLastMessage(ctx context.Context, conversationID, messageID string, at time.Time) error
}

// MessageRepository define a interface para persistência de mensagens
type MessageRepository interface {
	Create(ctx context.Context, msg *entities.Message) error
	FindByIDs(ctx context.Context, ids []string) (map[string]*entities.Message, error)
	// ListByConversation devolve as mensagens em ordem crescente de criação
	ListByConversation(ctx context.Context, conversationID string) ([]*entities.Message, error)
	// MarkConversationRead marca como lidas as mensagens não lidas que não
	// foram enviadas por readerID. Retorna a quantidade afetada.
	MarkConversationRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error)
}
