package entities

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLength é o tamanho máximo do corpo de uma mensagem (em caracteres)
const MaxMessageLength = 1000

// Conversation é uma conversa entre exatamente dois usuários
type Conversation struct {
	ID            string
	Participants  [2]string
	LastMessageID *string
	LastMessageAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasParticipant verifica se o usuário participa da conversa
func (c *Conversation) HasParticipant(userID string) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// OtherParticipant retorna o participante que não é userID.
// Se userID não participa, retorna o primeiro participante.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

// Message é uma mensagem dentro de uma conversa.
// Imutável após a criação, exceto pela transição de leitura.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Body           string
	IsRead         bool
	ReadAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeMessageBody remove espaços nas pontas e valida o tamanho.
// empty indica corpo vazio após o trim e tooLong o excesso de caracteres.
func NormalizeMessageBody(body string) (normalized string, empty bool, tooLong bool) {
	normalized = strings.TrimSpace(body)
	if normalized == "" {
		return "", true, false
	}
	if utf8.RuneCountInString(normalized) > MaxMessageLength {
		return normalized, false, true
	}
	return normalized, false, false
}
