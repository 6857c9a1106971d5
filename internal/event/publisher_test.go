package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/prepdash/internal/event"
	"github.com/vytor/prepdash/internal/models"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	declared   []string
	kind       string
	durable    bool
	declareErr error
	publishErr error
	sent       []published
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.declared = append(c.declared, name)
	c.kind = kind
	c.durable = durable
	return c.declareErr
}

func (c *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestNewPublisherDeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := event.NewPublisher(ch, "prepdash.events")
	require.NoError(t, err)

	assert.Equal(t, []string{"prepdash.events"}, ch.declared)
	assert.Equal(t, "topic", ch.kind)
	assert.True(t, ch.durable)
}

func TestNewPublisherDeclareError(t *testing.T) {
	_, err := event.NewPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declare exchange x")
}

func TestSaveResultPublishesCompletedEvent(t *testing.T) {
	ch := &fakeChannel{}
	p, err := event.NewPublisher(ch, "prepdash.events")
	require.NoError(t, err)

	record := models.AssessmentRecord{
		ID:           "rec-1",
		StudentID:    "stu-1",
		SessionID:    "sess-1",
		Track:        models.TrackNEET,
		TotalCount:   10,
		CorrectCount: 4,
		CompletedAt:  time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
	require.NoError(t, p.SaveResult(context.Background(), record))

	require.Len(t, ch.sent, 1)
	sent := ch.sent[0]
	assert.Equal(t, "prepdash.events", sent.exchange)
	assert.Equal(t, event.TypeAssessmentCompleted, sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), sent.msg.DeliveryMode)
	assert.Equal(t, "rec-1", sent.msg.MessageId)

	var envelope struct {
		Type    string                  `json:"type"`
		Payload models.AssessmentRecord `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(sent.msg.Body, &envelope))
	assert.Equal(t, event.TypeAssessmentCompleted, envelope.Type)
	assert.Equal(t, "sess-1", envelope.Payload.SessionID)
	assert.Equal(t, 4, envelope.Payload.CorrectCount)
}

func TestSaveResultPublishError(t *testing.T) {
	ch := &fakeChannel{publishErr: amqp.ErrClosed}
	p, err := event.NewPublisher(ch, "prepdash.events")
	require.NoError(t, err)

	err = p.SaveResult(context.Background(), models.AssessmentRecord{ID: "r"})
	require.Error(t, err)
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestSaveResultCancelledContext(t *testing.T) {
	ch := &fakeChannel{}
	p, err := event.NewPublisher(ch, "prepdash.events")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = p.SaveResult(ctx, models.AssessmentRecord{ID: "r"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ch.sent)
}

func TestPublishGenericEvent(t *testing.T) {
	ch := &fakeChannel{}
	p, err := event.NewPublisher(ch, "prepdash.events")
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "questions.imported", map[string]int{"count": 3}))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, "questions.imported", ch.sent[0].key)
	assert.JSONEq(t, `{"count":3}`, string(mustPayload(t, ch.sent[0].msg.Body)))
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{}
	p, err := event.NewPublisher(ch, "prepdash.events")
	require.NoError(t, err)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func mustPayload(t *testing.T, body []byte) json.RawMessage {
	t.Helper()
	var envelope struct {
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Payload
}
