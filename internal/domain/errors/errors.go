package errors

import (
	"context"
	"errors"
)

// Kind classifica um erro de domínio para que a camada HTTP escolha o status
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindSession
	KindAuthorization
	KindNotFound
	KindConflict
	KindTransient
)

// String retorna o nome do tipo de erro (usado em logs)
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindSession:
		return "session"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	default:
		return "internal"
	}
}

// Business errors
// Nota: as mensagens são message IDs para i18n.
// As traduções estão em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound         = &DomainError{Kind: KindNotFound, Message: "error.user_not_found"}
	ErrPostNotFound         = &DomainError{Kind: KindNotFound, Message: "error.post_not_found"}
	ErrConversationNotFound = &DomainError{Kind: KindNotFound, Message: "error.conversation_not_found"}
	ErrNotificationNotFound = &DomainError{Kind: KindNotFound, Message: "error.notification_not_found"}
	ErrEmailAlreadyExists   = &DomainError{Kind: KindConflict, Message: "error.email_already_exists"}
	ErrInvalidCredentials   = &DomainError{Kind: KindAuth, Message: "error.invalid_credentials"}
	ErrUnauthorized         = &DomainError{Kind: KindSession, Message: "error.unauthorized"}
	ErrForbidden            = &DomainError{Kind: KindAuthorization, Message: "error.forbidden"}
	ErrNotPostOwner         = &DomainError{Kind: KindAuthorization, Message: "error.not_post_owner"}
	ErrNotParticipant       = &DomainError{Kind: KindAuthorization, Message: "error.not_participant"}
)

// Domain errors
var (
	ErrInvalidEmail       = &DomainError{Kind: KindValidation, Message: "error.invalid_email"}
	ErrPhotoRequired      = &DomainError{Kind: KindValidation, Message: "error.photo_required"}
	ErrEmptyMessage       = &DomainError{Kind: KindValidation, Message: "error.message_empty"}
	ErrMessageTooLong     = &DomainError{Kind: KindValidation, Message: "error.message_too_long"}
	ErrSelfMessage        = &DomainError{Kind: KindValidation, Message: "error.self_message"}
	ErrRecipientRequired  = &DomainError{Kind: KindValidation, Message: "error.recipient_required"}
	ErrInvalidID          = &DomainError{Kind: KindValidation, Message: "error.invalid_id"}
	ErrInvalidCoordinates = &DomainError{Kind: KindValidation, Message: "error.invalid_coordinates"}
	ErrInvalidUpload      = &DomainError{Kind: KindValidation, Message: "error.invalid_upload"}
	ErrUpstreamTimeout    = &DomainError{Kind: KindTransient, Message: "error.upstream_unavailable"}
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base vem de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeUnavailable  = "/problems/upstream-unavailable"
	ProblemTypeBadRequest   = "/problems/bad-request"
)

// FieldError descreve um problema de validação de um campo específico
type FieldError struct {
	Field   string
	Message string
	Tag     string
	Param   string
	Value   string
}

// DomainError representa um erro de domínio com contexto adicional
type DomainError struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is compara pelo tipo e message ID, para que cópias com campos
// diferentes ainda casem com o sentinel de origem
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// NewValidation cria um erro de validação com detalhes por campo
func NewValidation(message string, fields ...FieldError) *DomainError {
	return &DomainError{Kind: KindValidation, Message: message, Fields: fields}
}

// Wrap anexa a causa a um erro de domínio sem alterar o sentinel original
func Wrap(sentinel *DomainError, err error) *DomainError {
	return &DomainError{
		Kind:    sentinel.Kind,
		Message: sentinel.Message,
		Fields:  sentinel.Fields,
		Err:     err,
	}
}

// Internal embrulha uma falha de infraestrutura, classificando timeouts
// como erro transitório
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrUpstreamTimeout, err)
	}
	return &DomainError{Kind: KindInternal, Message: "error.internal.detail", Err: err}
}

// KindOf devolve a classificação de qualquer erro
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	return KindInternal
}

// As expõe errors.As para quem importa este pacote com o nome errors
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is expõe errors.Is para quem importa este pacote com o nome errors
func Is(err, target error) bool {
	return errors.Is(err, target)
}
