package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

// Timestamps são gravados em nanossegundos Unix para manter a ordem de
// inserção das mensagens.

// LocationColumns guarda um GeoPoint. Coordenadas nulas = sem localização.
type LocationColumns struct {
	Longitude *float64
	Latitude  *float64
	City      string `gorm:"type:varchar(120)"`
	Country   string `gorm:"type:varchar(120)"`
	Address   string `gorm:"type:varchar(255)"`
}

// UserModel é o model GORM para usuários
type UserModel struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string          `gorm:"type:varchar(100);not null"`
	PasswordHash string          `gorm:"type:varchar(255);not null"`
	Phone        string          `gorm:"type:varchar(40);not null"`
	Address      string          `gorm:"type:varchar(255);not null"`
	Location     LocationColumns `gorm:"embedded;embeddedPrefix:location_"`
	AvatarURL    *string         `gorm:"type:varchar(500)"`
	IsActive     bool            `gorm:"not null;index"`
	CreatedAt    int64           `gorm:"autoCreateTime:nano;index"`
	UpdatedAt    int64           `gorm:"autoUpdateTime:nano"`
	DeletedAt    *int64          `gorm:"index"` // Soft delete
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(*gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

// PostModel é o model GORM para publicações
type PostModel struct {
	ID          string                      `gorm:"type:uuid;primaryKey"`
	Title       string                      `gorm:"type:varchar(100);not null"`
	Description string                      `gorm:"type:text;not null"`
	Category    string                      `gorm:"type:varchar(20);not null;index"`
	Size        string                      `gorm:"type:varchar(5);not null;index"`
	Gender      string                      `gorm:"type:varchar(10);not null;index"`
	State       string                      `gorm:"type:varchar(10);not null;index"`
	Photos      datatypes.JSONSlice[string] `gorm:"not null"`
	Location    LocationColumns             `gorm:"embedded;embeddedPrefix:location_"`
	UserID      string                      `gorm:"type:uuid;not null;index"`
	IsAvailable bool                        `gorm:"not null;index"`
	IsFeatured  bool                        `gorm:"not null;index"`
	Views       int64                       `gorm:"not null"`
	CreatedAt   int64                       `gorm:"autoCreateTime:nano;index"`
	UpdatedAt   int64                       `gorm:"autoUpdateTime:nano"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (m *PostModel) BeforeCreate(*gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

// ConversationModel é o model GORM para conversas.
// Não há constraint de unicidade sobre o par de participantes.
type ConversationModel struct {
	ID            string  `gorm:"type:uuid;primaryKey"`
	ParticipantA  string  `gorm:"type:uuid;not null;index"`
	ParticipantB  string  `gorm:"type:uuid;not null;index"`
	LastMessageID *string `gorm:"type:uuid"`
	LastMessageAt int64   `gorm:"not null;index"`
	CreatedAt     int64   `gorm:"autoCreateTime:nano"`
	UpdatedAt     int64   `gorm:"autoUpdateTime:nano"`
}

func (ConversationModel) TableName() string {
	return "conversations"
}

func (m *ConversationModel) BeforeCreate(*gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

// MessageModel é o model GORM para mensagens
type MessageModel struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	ConversationID string `gorm:"type:uuid;not null;index:idx_messages_conversation_created,priority:1"`
	SenderID       string `gorm:"type:uuid;not null;index"`
	Body           string `gorm:"type:text;not null"`
	IsRead         bool   `gorm:"not null;index"`
	ReadAt         *int64
	CreatedAt      int64 `gorm:"autoCreateTime:nano;index:idx_messages_conversation_created,priority:2"`
	UpdatedAt      int64 `gorm:"autoUpdateTime:nano"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) BeforeCreate(*gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

// NotificationModel é o model GORM para notificações
type NotificationModel struct {
	ID                    string  `gorm:"type:uuid;primaryKey"`
	UserID                string  `gorm:"type:uuid;not null;index:idx_notifications_user_read_created,priority:1"`
	Type                  string  `gorm:"type:varchar(30);not null"`
	Title                 string  `gorm:"type:varchar(200);not null"`
	Body                  string  `gorm:"type:text;not null"`
	RelatedUserID         *string `gorm:"type:uuid"`
	RelatedPostID         *string `gorm:"type:uuid"`
	RelatedConversationID *string `gorm:"type:uuid"`
	IsRead                bool    `gorm:"not null;index:idx_notifications_user_read_created,priority:2"`
	ReadAt                *int64
	Metadata              datatypes.JSONMap
	CreatedAt             int64 `gorm:"autoCreateTime:nano;index:idx_notifications_user_read_created,priority:3"`
	UpdatedAt             int64 `gorm:"autoUpdateTime:nano"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) BeforeCreate(*gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// Conversores de tempo

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func toNanosPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	n := t.UnixNano()
	return &n
}

func fromNanosPtr(n *int64) *time.Time {
	if n == nil {
		return nil
	}
	t := time.Unix(0, *n).UTC()
	return &t
}

// Conversores de localização

func toLocationColumns(p *valueobjects.GeoPoint) LocationColumns {
	if p == nil {
		return LocationColumns{}
	}
	lng, lat := p.Longitude(), p.Latitude()
	return LocationColumns{
		Longitude: &lng,
		Latitude:  &lat,
		City:      p.City,
		Country:   p.Country,
		Address:   p.Address,
	}
}

func (c LocationColumns) toGeoPoint() *valueobjects.GeoPoint {
	if c.Longitude == nil || c.Latitude == nil {
		return nil
	}
	p, err := valueobjects.NewGeoPoint(*c.Longitude, *c.Latitude, c.City, c.Country, c.Address)
	if err != nil {
		return nil
	}
	return p
}
