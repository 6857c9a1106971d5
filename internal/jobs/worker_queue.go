package jobs

import (
	"errors"

	"github.com/vytor/prepdash/internal/assessment"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
	"github.com/vytor/prepdash/internal/worker"
)

// ErrQueueFull is returned when the publish pool cannot take another job.
var ErrQueueFull = errors.New("publish queue full or stopped")

// WorkerQueue implements JobQueue using a worker pool. It also satisfies
// assessment.Publisher so sessions can hand records to it directly.
type WorkerQueue struct {
	publishPool *worker.Pool
	sink        assessment.ResultSink
	policy      assessment.RetryPolicy
	log         *logger.Logger
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(publishPool *worker.Pool, sink assessment.ResultSink, policy assessment.RetryPolicy) *WorkerQueue {
	return &WorkerQueue{
		publishPool: publishPool,
		sink:        sink,
		policy:      policy,
		log:         logger.Default().WithPrefix("job-queue"),
	}
}

func (q *WorkerQueue) EnqueueResult(record models.AssessmentRecord) error {
	ok := q.publishPool.TrySubmit(&worker.PublishResultJob{
		Sink:   q.sink,
		Record: record,
		Policy: q.policy,
	})
	if !ok {
		return ErrQueueFull
	}
	return nil
}

// Publish enqueues record and never blocks. A rejected record is logged and
// dropped; the session keeps its report either way.
func (q *WorkerQueue) Publish(record models.AssessmentRecord) {
	if err := q.EnqueueResult(record); err != nil {
		q.log.Error("dropping result: student_id=%s, session_id=%s, err=%v", record.StudentID, record.SessionID, err)
	}
}

func (q *WorkerQueue) Pending() int {
	return q.publishPool.QueueSize()
}
