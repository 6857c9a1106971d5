package services

import (
	"context"
	"fmt"

	"github.com/vytor/prepdash/internal/assessment"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
)

// FanoutSink saves a record to the primary store and then to every
// secondary sink. The first failure stops the chain and is returned, so a
// retry re-runs every sink; sinks are expected to tolerate repeats.
type FanoutSink struct {
	primary   assessment.ResultSink
	secondary []assessment.ResultSink
}

func NewFanoutSink(primary assessment.ResultSink, secondary ...assessment.ResultSink) *FanoutSink {
	return &FanoutSink{primary: primary, secondary: secondary}
}

func (f *FanoutSink) SaveResult(ctx context.Context, record models.AssessmentRecord) error {
	log := logger.FromContext(ctx)

	if err := f.primary.SaveResult(ctx, record); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	for i, sink := range f.secondary {
		if err := sink.SaveResult(ctx, record); err != nil {
			log.Warn("secondary sink %d failed: %v", i, err)
			return fmt.Errorf("forward result: %w", err)
		}
	}
	return nil
}
