package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/prepdash/internal/errors"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
	"github.com/vytor/prepdash/internal/repository"
)

// EventEmitter publishes a domain event; implemented by event.Publisher.
type EventEmitter interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// QuestionService manages the question bank
type QuestionService interface {
	Import(ctx context.Context, questions []models.Question) (models.ImportResult, error)
	Count(ctx context.Context, track models.Track) (int, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	events       EventEmitter
}

// NewQuestionService creates a new QuestionService. events may be nil.
func NewQuestionService(questionRepo repository.QuestionRepository, events EventEmitter) QuestionService {
	return &questionService{questionRepo: questionRepo, events: events}
}

// Import validates every question and stores the batch. Nothing is stored
// when any question is invalid. Questions without an id get a generated one.
func (s *questionService) Import(ctx context.Context, questions []models.Question) (models.ImportResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("importing %d questions", len(questions))

	if len(questions) == 0 {
		return models.ImportResult{}, errors.NewValidationError("questions", "cannot be empty")
	}

	batch := make([]models.Question, len(questions))
	for i, q := range questions {
		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if err := q.Validate(); err != nil {
			log.Warn("rejecting import: question %d invalid: %v", i, err)
			return models.ImportResult{}, errors.NewValidationError(fmt.Sprintf("questions[%d]", i), err.Error())
		}
		batch[i] = q
	}

	inserted, err := s.questionRepo.InsertBatch(ctx, batch)
	if err != nil {
		log.Error("failed to insert questions: %v", err)
		return models.ImportResult{}, errors.NewInternalError(err)
	}

	result := models.ImportResult{
		Received: len(batch),
		Inserted: inserted,
		Skipped:  len(batch) - inserted,
	}
	log.Info("questions imported: received=%d, inserted=%d, skipped=%d", result.Received, result.Inserted, result.Skipped)

	if s.events != nil && inserted > 0 {
		if err := s.events.Publish(ctx, "questions.imported", result); err != nil {
			log.Warn("failed to publish import event: %v", err)
		}
	}
	return result, nil
}

func (s *questionService) Count(ctx context.Context, track models.Track) (int, error) {
	log := logger.FromContext(ctx)

	if !track.Valid() {
		return 0, errors.NewValidationError("track", "must be one of JEE, NEET")
	}
	count, err := s.questionRepo.CountByTrack(ctx, track)
	if err != nil {
		log.Error("failed to count questions: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return count, nil
}
