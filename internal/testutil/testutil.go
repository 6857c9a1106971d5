package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/prepdash/internal/db"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	conn, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), conn, logger.Nop()), "failed to apply migrations")
	return conn
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Question builds a valid question with four options; the second is correct.
func Question(id string, track models.Track, subject, topic string) models.Question {
	return models.Question{
		ID:            id,
		Track:         track,
		Prompt:        "Question " + id,
		Options:       []string{id + "-a", id + "-b", id + "-c", id + "-d"},
		CorrectOption: id + "-b",
		Subject:       subject,
		Topic:         topic,
		Difficulty:    models.DifficultyMedium,
	}
}

// Record builds a completed assessment record for studentID.
func Record(id, studentID string, completedAt time.Time) models.AssessmentRecord {
	return models.AssessmentRecord{
		ID:           id,
		StudentID:    studentID,
		SessionID:    "session-" + id,
		Track:        models.TrackJEE,
		TotalCount:   10,
		CorrectCount: 7,
		Report: models.Report{
			CorrectCount: 7,
			TotalCount:   10,
			SubjectPerformance: map[string]models.SubjectPerformance{
				"Physics": {Correct: 7, Total: 10, Percentage: 70},
			},
			SubjectOrder:    []string{"Physics"},
			Strengths:       []string{"Optics"},
			Weaknesses:      []string{},
			Recommendations: []string{"Regular practice with mock tests will help improve your performance."},
		},
		CompletedAt: completedAt.UTC(),
	}
}
