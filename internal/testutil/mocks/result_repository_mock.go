package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/prepdash/internal/models"
)

// MockResultRepository is a mock implementation of repository.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) SaveResult(ctx context.Context, record models.AssessmentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockResultRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]models.AssessmentRecord, error) {
	args := m.Called(ctx, studentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssessmentRecord), args.Error(1)
}

func (m *MockResultRepository) Get(ctx context.Context, id string) (*models.AssessmentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentRecord), args.Error(1)
}

// MockResultSink is a mock implementation of assessment.ResultSink
type MockResultSink struct {
	mock.Mock
}

func (m *MockResultSink) SaveResult(ctx context.Context, record models.AssessmentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
