package entities

import "time"

// NotificationType representa o tipo de uma notificação
type NotificationType string

const (
	NotificationTypeMessage         NotificationType = "message"
	NotificationTypeNewFollower     NotificationType = "new_follower"
	NotificationTypeGarmentInterest NotificationType = "garment_interest"
	NotificationTypeSystem          NotificationType = "system"
)

// IsValid verifica se o tipo pertence à enumeração
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeMessage, NotificationTypeNewFollower,
		NotificationTypeGarmentInterest, NotificationTypeSystem:
		return true
	}
	return false
}

// Notification é um registro por usuário gerado por outra operação
type Notification struct {
	ID                    string
	UserID                string
	Type                  NotificationType
	Title                 string
	Body                  string
	RelatedUserID         *string
	RelatedPostID         *string
	RelatedConversationID *string
	IsRead                bool
	ReadAt                *time.Time
	Metadata              map[string]any
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// MarkRead marca a notificação como lida. O timestamp original é
// preservado se ela já estava lida.
func (n *Notification) MarkRead(at time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &at
}
