package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/handlers/dto"
	"github.com/rafabene/revistete-backend/internal/handlers/middleware"
	"github.com/rafabene/revistete-backend/internal/services"
)

// MessageHandler lida com conversas e mensagens
type MessageHandler struct {
	messageService *services.MessageService
	errs           *ErrorResponder
}

// NewMessageHandler cria um novo MessageHandler
func NewMessageHandler(messageService *services.MessageService, errs *ErrorResponder) *MessageHandler {
	return &MessageHandler{messageService: messageService, errs: errs}
}

// Send envia uma mensagem para recipient_id, criando a conversa no primeiro contato
//
//	@Summary	Enviar mensagem
//	@Tags		messages
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.SendMessageRequest	true	"Destinatário e texto"
//	@Success	201		{object}	dto.SendMessageResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Router		/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	h.send(c, "")
}

// SendToConversation responde dentro de uma conversa existente
//
//	@Summary	Responder em uma conversa
//	@Tags		messages
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		conversationId	path		string					true	"ID da conversa"
//	@Param		body			body		dto.SendMessageRequest	true	"Texto"
//	@Success	201				{object}	dto.SendMessageResponse
//	@Failure	403				{object}	dto.ErrorResponse
//	@Failure	404				{object}	dto.ErrorResponse
//	@Router		/messages/{conversationId} [post]
func (h *MessageHandler) SendToConversation(c *gin.Context) {
	h.send(c, c.Param("conversationId"))
}

func (h *MessageHandler) send(c *gin.Context, conversationID string) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.RespondBinding(c, err)
		return
	}

	input := services.SendMessageInput{
		SenderID:       middleware.UserIDFromContext(c),
		ConversationID: conversationID,
		Body:           req.Message,
	}
	if conversationID == "" {
		input.RecipientID = req.RecipientID
	}

	result, err := h.messageService.SendMessage(c.Request.Context(), input)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSendMessageResponse(dto.OK(c, "message.sent"), result))
}

// ListConversations lista as conversas do chamador
//
//	@Summary	Listar conversas
//	@Tags		messages
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.ConversationsEnvelope
//	@Router		/messages/conversations [get]
func (h *MessageHandler) ListConversations(c *gin.Context) {
	summaries, err := h.messageService.ListConversations(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ConversationsEnvelope{
		Envelope:      dto.Envelope{Success: true},
		Conversations: dto.ToConversationResponses(summaries),
	})
}

// ListMessages lista as mensagens da conversa e marca como lidas as recebidas
//
//	@Summary	Mensagens de uma conversa
//	@Tags		messages
//	@Produce	json
//	@Security	BearerAuth
//	@Param		conversationId	path		string	true	"ID da conversa"
//	@Success	200				{object}	dto.MessagesEnvelope
//	@Failure	403				{object}	dto.ErrorResponse
//	@Failure	404				{object}	dto.ErrorResponse
//	@Router		/messages/{conversationId} [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	views, err := h.messageService.ListMessages(c.Request.Context(), c.Param("conversationId"), middleware.UserIDFromContext(c))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMessagesEnvelope(views))
}
