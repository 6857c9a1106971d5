package api

import (
	"context"
	"time"

	"github.com/vytor/prepdash/internal/services"
	"github.com/vytor/prepdash/internal/worker"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Server struct {
	AssessmentService services.AssessmentService
	QuestionService   services.QuestionService
	DB                HealthChecker
	PublishPool       *worker.Pool
	CORSOrigins       []string
	// StreamInterval is how often the websocket pushes a session view.
	StreamInterval time.Duration
	RequestTimeout time.Duration
}

const (
	defaultStreamInterval = time.Second
	defaultRequestTimeout = 15 * time.Second
	maxImportBodyBytes    = 5 << 20
)
