package dto

import (
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/services"
)

// SendMessageRequest representa o envio de uma mensagem. recipient_id é
// ignorado quando a conversa vem na rota.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message"`
}

// MessageResponse representa uma mensagem
type MessageResponse struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversation_id"`
	Sender         *UserSummary `json:"sender,omitempty"`
	SenderID       string       `json:"sender_id"`
	Message        string       `json:"message"`
	IsRead         bool         `json:"is_read"`
	ReadAt         *time.Time   `json:"read_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// ToMessageResponse converte uma mensagem com o remetente opcional
func ToMessageResponse(msg *entities.Message, sender *entities.User) MessageResponse {
	return MessageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Sender:         ToUserSummary(sender),
		SenderID:       msg.SenderID,
		Message:        msg.Body,
		IsRead:         msg.IsRead,
		ReadAt:         msg.ReadAt,
		CreatedAt:      msg.CreatedAt,
	}
}

// ConversationResponse é uma linha da lista de conversas
type ConversationResponse struct {
	ID            string       `json:"id"`
	Participant   *UserSummary `json:"participant"`
	LastMessage   string       `json:"last_message"`
	LastMessageAt time.Time    `json:"last_message_at"`
	Unread        int          `json:"unread"`
}

// ToConversationResponses converte os resumos do serviço
func ToConversationResponses(summaries []*services.ConversationSummary) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, ConversationResponse{
			ID:            s.Conversation.ID,
			Participant:   ToUserSummary(s.OtherParticipant),
			LastMessage:   s.LastMessage,
			LastMessageAt: s.Conversation.LastMessageAt,
			Unread:        s.UnreadCount,
		})
	}
	return out
}

// SendMessageResponse é a resposta do envio. data traz a mensagem criada.
type SendMessageResponse struct {
	Envelope
	Data                SentMessage `json:"data"`
	ConversationCreated bool        `json:"conversation_created"`
}

// SentMessage é a mensagem criada com a conversa de destino
type SentMessage struct {
	MessageResponse
	RecipientID string `json:"recipient_id"`
}

// ToSendMessageResponse converte o resultado do envio
func ToSendMessageResponse(env Envelope, res *services.SendResult) SendMessageResponse {
	return SendMessageResponse{
		Envelope: env,
		Data: SentMessage{
			MessageResponse: ToMessageResponse(res.Message, res.Sender),
			RecipientID:     res.Conversation.OtherParticipant(res.Message.SenderID),
		},
		ConversationCreated: res.ConversationCreated,
	}
}

// ConversationsEnvelope embrulha a lista de conversas
type ConversationsEnvelope struct {
	Envelope
	Conversations []ConversationResponse `json:"conversations"`
}

// MessagesEnvelope embrulha as mensagens de uma conversa
type MessagesEnvelope struct {
	Envelope
	Messages []MessageResponse `json:"messages"`
}

// ToMessagesEnvelope converte as views do serviço
func ToMessagesEnvelope(views []*services.MessageView) MessagesEnvelope {
	out := make([]MessageResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ToMessageResponse(v.Message, v.Sender))
	}
	return MessagesEnvelope{Envelope: Envelope{Success: true}, Messages: out}
}
