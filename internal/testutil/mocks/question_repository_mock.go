package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/prepdash/internal/models"
)

// MockQuestionRepository is a mock implementation of repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) QuestionsByTrack(ctx context.Context, track models.Track) ([]models.Question, error) {
	args := m.Called(ctx, track)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) InsertBatch(ctx context.Context, questions []models.Question) (int, error) {
	args := m.Called(ctx, questions)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) CountByTrack(ctx context.Context, track models.Track) (int, error) {
	args := m.Called(ctx, track)
	return args.Int(0), args.Error(1)
}
