package assessment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
)

// ResultSink persists a completed assessment record.
type ResultSink interface {
	SaveResult(ctx context.Context, record models.AssessmentRecord) error
}

// Publisher hands a finished record to the result sink without blocking the
// caller. Implementations must never panic or report back to the session.
type Publisher interface {
	Publish(record models.AssessmentRecord)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(record models.AssessmentRecord)

func (f PublisherFunc) Publish(record models.AssessmentRecord) { f(record) }

// NopPublisher drops every record.
type NopPublisher struct{}

func (NopPublisher) Publish(models.AssessmentRecord) {}

// RetryPolicy controls how often delivery to a sink is attempted.
type RetryPolicy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy returns production defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// Deliver saves record to sink, retrying failures with exponential backoff
// and jitter. Context errors are never retried.
func Deliver(ctx context.Context, sink ResultSink, record models.AssessmentRecord, policy RetryPolicy) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"record_id":  record.ID,
		"session_id": record.SessionID,
	})
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := range attempts {
		err := sink.SaveResult(ctx, record)
		if err == nil {
			if attempt > 0 {
				log.Info("result delivered after %d attempts", attempt+1)
			}
			return nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		wait := policy.backoff(attempt)
		log.Warn("result delivery failed (attempt %d/%d), retrying in %v: %v", attempt+1, attempts, wait, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("deliver result after %d attempts: %w", attempts, lastErr)
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	wait := float64(p.InitialWait) * math.Pow(mult, float64(attempt))
	if p.MaxWait > 0 && wait > float64(p.MaxWait) {
		wait = float64(p.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
