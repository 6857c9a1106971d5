package worker

import (
	"context"

	"github.com/vytor/prepdash/internal/assessment"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
)

// PublishResultJob hands one completed assessment to the result sink,
// retrying per Policy.
type PublishResultJob struct {
	Sink   assessment.ResultSink
	Record models.AssessmentRecord
	Policy assessment.RetryPolicy
}

func (j *PublishResultJob) Name() string { return "publish_result" }

func (j *PublishResultJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"student_id": j.Record.StudentID,
		"session_id": j.Record.SessionID,
	})
	log.Debug("publishing result: correct=%d/%d", j.Record.CorrectCount, j.Record.TotalCount)

	if err := assessment.Deliver(logger.NewContext(ctx, log), j.Sink, j.Record, j.Policy); err != nil {
		log.Error("result lost after retries: %v", err)
		return err
	}
	return nil
}
