package dto

import (
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/services"
)

// ListNotificationsQuery são os filtros da listagem
type ListNotificationsQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Limit      int  `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

// PostSummary é o resumo de publicação embutido nas notificações
type PostSummary struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Photos []string `json:"photos"`
}

// NotificationResponse representa uma notificação
type NotificationResponse struct {
	ID                    string         `json:"id"`
	Type                  string         `json:"type"`
	Title                 string         `json:"title"`
	Message               string         `json:"message"`
	RelatedUser           *UserSummary   `json:"related_user,omitempty"`
	RelatedPost           *PostSummary   `json:"related_post,omitempty"`
	RelatedUserID         *string        `json:"related_user_id,omitempty"`
	RelatedPostID         *string        `json:"related_post_id,omitempty"`
	RelatedConversationID *string        `json:"related_conversation_id,omitempty"`
	IsRead                bool           `json:"is_read"`
	ReadAt                *time.Time     `json:"read_at,omitempty"`
	Metadata              map[string]any `json:"metadata,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
}

// ToNotificationResponse converte uma view do serviço
func ToNotificationResponse(v *services.NotificationView) NotificationResponse {
	n := v.Notification
	return NotificationResponse{
		ID:                    n.ID,
		Type:                  string(n.Type),
		Title:                 n.Title,
		Message:               n.Body,
		RelatedUser:           ToUserSummary(v.RelatedUser),
		RelatedPost:           toPostSummary(v.RelatedPost),
		RelatedUserID:         n.RelatedUserID,
		RelatedPostID:         n.RelatedPostID,
		RelatedConversationID: n.RelatedConversationID,
		IsRead:                n.IsRead,
		ReadAt:                n.ReadAt,
		Metadata:              n.Metadata,
		CreatedAt:             n.CreatedAt,
	}
}

func toPostSummary(p *entities.Post) *PostSummary {
	if p == nil {
		return nil
	}
	return &PostSummary{ID: p.ID, Title: p.Title, Photos: p.Photos}
}

// NotificationsEnvelope embrulha a lista com o total de não lidas
type NotificationsEnvelope struct {
	Envelope
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// ToNotificationsEnvelope converte a lista do serviço
func ToNotificationsEnvelope(list *services.NotificationList) NotificationsEnvelope {
	out := make([]NotificationResponse, 0, len(list.Items))
	for _, v := range list.Items {
		out = append(out, ToNotificationResponse(v))
	}
	return NotificationsEnvelope{
		Envelope:      Envelope{Success: true},
		Notifications: out,
		UnreadCount:   list.UnreadCount,
	}
}

// NotificationEnvelope embrulha uma notificação
type NotificationEnvelope struct {
	Envelope
	Notification NotificationResponse `json:"notification"`
}

// UnreadCountResponse é a resposta do contador
type UnreadCountResponse struct {
	Envelope
	UnreadCount int64 `json:"unread_count"`
}

// MarkAllReadResponse informa quantas notificações foram marcadas
type MarkAllReadResponse struct {
	Envelope
	Count int64 `json:"count"`
}

// PlaceResponse é o resultado do geocoding inverso
type PlaceResponse struct {
	Envelope
	City    string `json:"city"`
	Country string `json:"country"`
	Address string `json:"address"`
}

// ReverseGeocodeQuery são as coordenadas consultadas
type ReverseGeocodeQuery struct {
	Lat *float64 `form:"lat" binding:"required"`
	Lng *float64 `form:"lng" binding:"required"`
}
