package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/infrastructure/metrics"
)

// Routing keys dos eventos de domínio
const (
	RoutingKeyMessageSent         = "message.sent"
	RoutingKeyNotificationCreated = "notification.created"
)

// Event é o envelope publicado no exchange
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewEvent cria um envelope com o horário atual em UTC
func NewEvent(eventType string, payload any) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload}
}

// NewPublisher conecta ao RabbitMQ e declara o exchange (topic).
// Sem URL, ou se a conexão falhar, devolve um publisher noop.
func NewPublisher(amqpURL, exchange string, logger ports.Logger) ports.EventPublisher {
	log := logger.With("component", "rabbitmq")
	if amqpURL == "" {
		log.Info("rabbitmq disabled, using noop", "reason", "empty amqp url")
		return &noopPublisher{reason: "empty amqp url", logger: log}
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Warn("rabbitmq disabled, using noop", "error", err)
		return &noopPublisher{reason: err.Error(), logger: log}
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq disabled, using noop", "error", err)
		_ = conn.Close()
		return &noopPublisher{reason: err.Error(), logger: log}
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		log.Warn("rabbitmq disabled, using noop", "error", err)
		_ = ch.Close()
		_ = conn.Close()
		return &noopPublisher{reason: err.Error(), logger: log}
	}

	log.Info("rabbitmq connected", "exchange", exchange)
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange, logger: log}
}

type amqpPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   ports.Logger
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		metrics.IncAMQPPublishError()
		p.logger.Error("rabbitmq publish failed", "routing_key", routingKey, "error", err)
	}
	return err
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct {
	reason string
	logger ports.Logger
}

func (p *noopPublisher) Publish(_ context.Context, routingKey string, event any) error {
	if e, ok := event.(Event); ok {
		p.logger.Debug("rabbitmq noop publish", "routing_key", routingKey, "event_type", e.Type)
		return nil
	}
	p.logger.Debug("rabbitmq noop publish", "routing_key", routingKey)
	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherMode informa o modo do publisher para logs de inicialização
func PublisherMode(p ports.EventPublisher) string {
	switch p.(type) {
	case *amqpPublisher:
		return "amqp"
	case *noopPublisher:
		return "noop"
	default:
		return "unknown"
	}
}

// PublisherNoopReason devolve o motivo do modo noop (vazio quando conectado)
func PublisherNoopReason(p ports.EventPublisher) string {
	if n, ok := p.(*noopPublisher); ok {
		return n.reason
	}
	return ""
}
