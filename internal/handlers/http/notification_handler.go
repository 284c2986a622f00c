package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/revistete-backend/internal/handlers/dto"
	"github.com/rafabene/revistete-backend/internal/handlers/middleware"
	"github.com/rafabene/revistete-backend/internal/services"
)

// NotificationHandler lida com as notificações do usuário autenticado
type NotificationHandler struct {
	notificationService *services.NotificationService
	errs                *ErrorResponder
}

// NewNotificationHandler cria um novo NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService, errs *ErrorResponder) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, errs: errs}
}

// List lista as notificações, mais recentes primeiro
//
//	@Summary	Listar notificações
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Param		unread_only	query		bool	false	"Só não lidas"
//	@Param		limit		query		int		false	"Máximo de itens (padrão 50)"
//	@Success	200			{object}	dto.NotificationsEnvelope
//	@Router		/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var query dto.ListNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.errs.RespondBinding(c, err)
		return
	}

	list, err := h.notificationService.List(c.Request.Context(), middleware.UserIDFromContext(c), query.UnreadOnly, query.Limit)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationsEnvelope(list))
}

// UnreadCount devolve o total de notificações não lidas
//
//	@Summary	Contador de não lidas
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.UnreadCountResponse
//	@Router		/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{
		Envelope:    dto.Envelope{Success: true},
		UnreadCount: count,
	})
}

// MarkRead marca uma notificação do chamador como lida
//
//	@Summary	Marcar como lida
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID da notificação"
//	@Success	200	{object}	dto.NotificationEnvelope
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	view, err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NotificationEnvelope{
		Envelope:     dto.OK(c, "notification.marked_read"),
		Notification: dto.ToNotificationResponse(view),
	})
}

// MarkAllRead marca todas as notificações do chamador como lidas
//
//	@Summary	Marcar todas como lidas
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.MarkAllReadResponse
//	@Router		/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.notificationService.MarkAllRead(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MarkAllReadResponse{
		Envelope: dto.OK(c, "notification.all_marked_read", map[string]interface{}{"Count": count}),
		Count:    count,
	})
}

// Delete remove uma notificação do chamador
//
//	@Summary	Remover notificação
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"ID da notificação"
//	@Success	200	{object}	dto.Envelope
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notificationService.Delete(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c)); err != nil {
		h.errs.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(c, "notification.deleted"))
}
