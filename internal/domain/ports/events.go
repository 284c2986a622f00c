package ports

import "context"

// EventPublisher publica eventos de domínio em um broker.
// Falhas de publicação nunca devem interromper a operação que as originou.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}
