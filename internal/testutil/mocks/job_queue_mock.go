package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/prepdash/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueResult(record models.AssessmentRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockJobQueue) Pending() int {
	args := m.Called()
	return args.Int(0)
}

// Publish lets the mock stand in for assessment.Publisher.
func (m *MockJobQueue) Publish(record models.AssessmentRecord) {
	_ = m.EnqueueResult(record)
}
