package services

import (
	"context"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/infrastructure/messaging"
	"github.com/rafabene/revistete-backend/internal/infrastructure/metrics"
)

// Parâmetros da notificação de nova mensagem
const (
	notificationPreviewLength = 50
	notificationTimeout       = 5 * time.Second
)

// MessageService implementa conversas entre dois usuários
type MessageService struct {
	conversationRepo repositories.ConversationRepository
	messageRepo      repositories.MessageRepository
	userRepo         repositories.UserRepository
	notifications    *NotificationService
	translator       ports.Translator
	events           ports.EventPublisher
	uow              ports.UnitOfWork
	logger           ports.Logger
	now              func() time.Time
}

// NewMessageService cria um novo MessageService
func NewMessageService(
	conversationRepo repositories.ConversationRepository,
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	notifications *NotificationService,
	translator ports.Translator,
	events ports.EventPublisher,
	uow ports.UnitOfWork,
	logger ports.Logger,
) *MessageService {
	return &MessageService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		notifications:    notifications,
		translator:       translator,
		events:           events,
		uow:              uow,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// SendMessageInput identifica o destino por RecipientID ou ConversationID
type SendMessageInput struct {
	SenderID       string
	RecipientID    string
	ConversationID string
	Body           string
}

// SendResult é o resultado de um envio
type SendResult struct {
	Message               *entities.Message
	Conversation          *entities.Conversation
	Sender                *entities.User
	ConversationCreated   bool
	NotificationDelivered bool
}

// MessageSentEvent é o payload publicado no broker
type MessageSentEvent struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	RecipientID    string    `json:"recipient_id"`
	SentAt         time.Time `json:"sent_at"`
}

// SendMessage grava a mensagem, criando a conversa no primeiro contato,
// e notifica o destinatário. Falhas da notificação não afetam o envio.
func (s *MessageService) SendMessage(ctx context.Context, input SendMessageInput) (_ *SendResult, err error) {
	ctx, end := startSpan(ctx, "MessageService.SendMessage", attribute.String("sender.id", input.SenderID))
	defer func() { end(err) }()

	recipientID, conv, err := s.resolveRecipient(ctx, input)
	if err != nil {
		return nil, err
	}

	body, empty, tooLong := entities.NormalizeMessageBody(input.Body)
	switch {
	case empty:
		return nil, errors.ErrEmptyMessage
	case tooLong:
		return nil, errors.ErrMessageTooLong
	}

	if recipientID == input.SenderID {
		return nil, errors.ErrSelfMessage
	}

	if conv == nil {
		recipient, err := s.userRepo.FindByID(ctx, recipientID)
		if err != nil {
			return nil, errors.Internal(err)
		}
		if recipient == nil {
			return nil, errors.ErrUserNotFound
		}
	}

	result := &SendResult{}
	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if conv == nil {
			// busca seguida de insert: dois primeiros contatos simultâneos
			// podem criar duas conversas para o mesmo par
			conv, err = s.conversationRepo.FindByParticipants(txCtx, input.SenderID, recipientID)
			if err != nil {
				return err
			}
			if conv == nil {
				conv = &entities.Conversation{
					Participants:  [2]string{input.SenderID, recipientID},
					LastMessageAt: s.now(),
				}
				if err := s.conversationRepo.Create(txCtx, conv); err != nil {
					return err
				}
				result.ConversationCreated = true
			}
		}

		msg := &entities.Message{
			ConversationID: conv.ID,
			SenderID:       input.SenderID,
			Body:           body,
		}
		if err := s.messageRepo.Create(txCtx, msg); err != nil {
			return err
		}

		if err := s.conversationRepo.UpdateLastMessage(txCtx, conv.ID, msg.ID, msg.CreatedAt); err != nil {
			return err
		}
		conv.LastMessageID = &msg.ID
		conv.LastMessageAt = msg.CreatedAt

		result.Message = msg
		result.Conversation = conv
		return nil
	})
	if err != nil {
		return nil, errors.Internal(err)
	}

	metrics.IncMessageSent()
	if result.ConversationCreated {
		metrics.IncConversationCreated()
	}

	sender, err := s.userRepo.FindByID(ctx, input.SenderID)
	if err != nil {
		s.logger.Warn("failed to load message sender", "user_id", input.SenderID, "error", err)
	}
	result.Sender = sender

	result.NotificationDelivered = s.notifyRecipient(ctx, recipientID, sender, result)
	s.publishSent(ctx, recipientID, result.Message)

	s.logger.Info("message sent",
		"conversation_id", result.Conversation.ID,
		"message_id", result.Message.ID,
		"conversation_created", result.ConversationCreated,
	)
	return result, nil
}

// resolveRecipient devolve o destinatário e, se informada, a conversa
func (s *MessageService) resolveRecipient(ctx context.Context, input SendMessageInput) (string, *entities.Conversation, error) {
	if input.ConversationID != "" {
		if err := validateID("conversation_id", input.ConversationID); err != nil {
			return "", nil, err
		}
		conv, err := s.findParticipating(ctx, input.ConversationID, input.SenderID)
		if err != nil {
			return "", nil, err
		}
		return conv.OtherParticipant(input.SenderID), conv, nil
	}

	if input.RecipientID == "" {
		return "", nil, errors.ErrRecipientRequired
	}
	if err := validateID("recipient_id", input.RecipientID); err != nil {
		return "", nil, err
	}
	return input.RecipientID, nil, nil
}

// notifyRecipient roda depois do commit, com um contexto que não é
// cancelado junto com a requisição
func (s *MessageService) notifyRecipient(ctx context.Context, recipientID string, sender *entities.User, result *SendResult) bool {
	if s.notifications == nil {
		return false
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
	defer cancel()

	lang := s.translator.GetDefaultLanguage()
	name := s.translator.T(lang, "notification.someone")
	if sender != nil && sender.Name != "" {
		name = sender.Name
	}

	senderID := result.Message.SenderID
	convID := result.Conversation.ID
	n := s.notifications.Create(nctx, CreateNotificationInput{
		UserID: recipientID,
		Type:   entities.NotificationTypeMessage,
		Title:  s.translator.T(lang, "notification.message.title"),
		Body: s.translator.T(lang, "notification.message.body", map[string]interface{}{
			"Name":    name,
			"Preview": preview(result.Message.Body, notificationPreviewLength),
		}),
		RelatedUserID:         &senderID,
		RelatedConversationID: &convID,
		Metadata: map[string]any{
			"message_id": result.Message.ID,
		},
	})
	if n == nil {
		s.logger.Warn("message notification not delivered", "recipient_id", recipientID, "message_id", result.Message.ID)
		return false
	}
	return true
}

func (s *MessageService) publishSent(ctx context.Context, recipientID string, msg *entities.Message) {
	if s.events == nil {
		return
	}
	event := messaging.NewEvent(messaging.RoutingKeyMessageSent, MessageSentEvent{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		RecipientID:    recipientID,
		SentAt:         msg.CreatedAt,
	})
	if err := s.events.Publish(context.WithoutCancel(ctx), messaging.RoutingKeyMessageSent, event); err != nil {
		s.logger.Warn("failed to publish message event", "message_id", msg.ID, "error", err)
	}
}

// ConversationSummary é uma linha da lista de conversas.
// UnreadCount é sempre 0: a contagem por conversa não é calculada.
type ConversationSummary struct {
	Conversation     *entities.Conversation
	OtherParticipant *entities.User
	LastMessage      string
	UnreadCount      int
}

// ListConversations devolve as conversas do usuário, atividade mais recente primeiro
func (s *MessageService) ListConversations(ctx context.Context, userID string) ([]*ConversationSummary, error) {
	convs, err := s.conversationRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	userIDs := make([]string, 0, len(convs))
	messageIDs := make([]string, 0, len(convs))
	for _, c := range convs {
		userIDs = append(userIDs, c.OtherParticipant(userID))
		if c.LastMessageID != nil {
			messageIDs = append(messageIDs, *c.LastMessageID)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, errors.Internal(err)
	}
	messages, err := s.messageRepo.FindByIDs(ctx, messageIDs)
	if err != nil {
		return nil, errors.Internal(err)
	}

	summaries := make([]*ConversationSummary, 0, len(convs))
	for _, c := range convs {
		summary := &ConversationSummary{
			Conversation:     c,
			OtherParticipant: users[c.OtherParticipant(userID)],
		}
		if c.LastMessageID != nil {
			if m, ok := messages[*c.LastMessageID]; ok {
				summary.LastMessage = m.Body
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// MessageView é uma mensagem com o resumo do remetente
type MessageView struct {
	Message *entities.Message
	Sender  *entities.User
}

// ListMessages devolve as mensagens em ordem de criação e marca como lidas
// as que o chamador recebeu. A lista reflete o estado anterior à marcação.
func (s *MessageService) ListMessages(ctx context.Context, conversationID, callerID string) ([]*MessageView, error) {
	if err := validateID("conversation_id", conversationID); err != nil {
		return nil, err
	}

	conv, err := s.findParticipating(ctx, conversationID, callerID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	marked, err := s.messageRepo.MarkConversationRead(ctx, conv.ID, callerID, s.now())
	if err != nil {
		return nil, errors.Internal(err)
	}
	if marked > 0 {
		s.logger.Debug("messages marked as read", "conversation_id", conv.ID, "count", marked)
	}

	users, err := s.userRepo.FindByIDs(ctx, conv.Participants[:])
	if err != nil {
		return nil, errors.Internal(err)
	}

	views := make([]*MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, &MessageView{Message: m, Sender: users[m.SenderID]})
	}
	return views, nil
}

func (s *MessageService) findParticipating(ctx context.Context, conversationID, userID string) (*entities.Conversation, error) {
	conv, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if conv == nil {
		return nil, errors.ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, errors.ErrNotParticipant
	}
	return conv, nil
}

// preview corta o texto em n caracteres, com reticências quando truncado
func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
