package event

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
)

// TypeAssessmentCompleted is the routing key for finished assessments.
const TypeAssessmentCompleted = "assessment.completed"

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Event is the JSON envelope written to the exchange.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher emits domain events to a topic exchange, using the event type
// as routing key.
type Publisher struct {
	conn     io.Closer
	exchange string
	log      *logger.Logger
	now      func() time.Time

	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
	channel Channel
}

// Dial connects to amqpURL and declares a durable topic exchange.
func Dial(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	p, err := NewPublisher(ch, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares exchange on ch and returns a publisher bound to it.
func NewPublisher(ch Channel, exchange string) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	log := logger.Default().WithPrefix("event").WithField("exchange", exchange)
	log.Info("event publisher ready")
	return &Publisher{channel: ch, exchange: exchange, log: log, now: time.Now}, nil
}

// Publish sends payload wrapped in an Event envelope.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(Event{Type: eventType, OccurredAt: p.now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("encode event %s: %w", eventType, err)
	}
	return p.send(eventType, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Type:         eventType,
		Body:         body,
	})
}

// SaveResult publishes record as an assessment.completed event.
func (p *Publisher) SaveResult(ctx context.Context, record models.AssessmentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(Event{Type: TypeAssessmentCompleted, OccurredAt: record.CompletedAt, Payload: record})
	if err != nil {
		return fmt.Errorf("encode result %s: %w", record.ID, err)
	}
	err = p.send(TypeAssessmentCompleted, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    record.ID,
		Timestamp:    record.CompletedAt,
		Type:         TypeAssessmentCompleted,
		Body:         body,
	})
	if err != nil {
		return err
	}
	p.log.Debug("published %s: session_id=%s", TypeAssessmentCompleted, record.SessionID)
	return nil
}

func (p *Publisher) send(key string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Publish(p.exchange, key, false, false, msg); err != nil {
		p.log.Error("publish %s failed: %v", key, err)
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

// Close releases the channel and, when dialled, the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	if p.channel != nil {
		firstErr = p.channel.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
