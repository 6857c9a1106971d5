package jobs

import "github.com/vytor/prepdash/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueResult(record models.AssessmentRecord) error
	Pending() int
}
