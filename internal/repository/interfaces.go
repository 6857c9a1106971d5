package repository

import (
	"context"

	"github.com/vytor/prepdash/internal/models"
)

// QuestionRepository handles the question bank
type QuestionRepository interface {
	QuestionsByTrack(ctx context.Context, track models.Track) ([]models.Question, error)
	InsertBatch(ctx context.Context, questions []models.Question) (int, error)
	CountByTrack(ctx context.Context, track models.Track) (int, error)
}

// ResultRepository stores completed assessment records
type ResultRepository interface {
	SaveResult(ctx context.Context, record models.AssessmentRecord) error
	ListByStudent(ctx context.Context, studentID string, limit int) ([]models.AssessmentRecord, error)
	Get(ctx context.Context, id string) (*models.AssessmentRecord, error)
}
