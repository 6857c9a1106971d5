package models

import (
	"math"
	"time"
)

// Status is the lifecycle state of an assessment session.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// AnswerMap maps a 0-based question position to the chosen option.
// Unanswered positions are absent.
type AnswerMap map[int]string

// Clone returns an independent copy.
func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

type SubjectPerformance struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type Report struct {
	CorrectCount       int                           `json:"correct_count"`
	TotalCount         int                           `json:"total_count"`
	SubjectPerformance map[string]SubjectPerformance `json:"subject_performance"`
	SubjectOrder       []string                      `json:"subject_order"` // first-appearance order of subjects
	Strengths          []string                      `json:"strengths"`
	Weaknesses         []string                      `json:"weaknesses"`
	Recommendations    []string                      `json:"recommendations"`
}

// ScorePercentage is the overall score rounded to a whole percent.
func (r Report) ScorePercentage() int {
	if r.TotalCount == 0 {
		return 0
	}
	return RoundPercent(r.CorrectCount, r.TotalCount)
}

// RoundPercent returns round(100*correct/total), rounding halves up.
func RoundPercent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(100*float64(correct)/float64(total) + 0.5))
}

// AssessmentRecord is what gets persisted once a session completes.
type AssessmentRecord struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	SessionID    string    `json:"session_id"`
	Track        Track     `json:"track"`
	TotalCount   int       `json:"total_count"`
	CorrectCount int       `json:"correct_count"`
	Report       Report    `json:"report"`
	CompletedAt  time.Time `json:"completed_at"`
}

// SessionView is a read-only snapshot of a session for display.
type SessionView struct {
	SessionID        string          `json:"session_id"`
	Status           Status          `json:"status"`
	Track            Track           `json:"track,omitempty"`
	CurrentPosition  int             `json:"current_position"`
	TotalCount       int             `json:"total_count"`
	RemainingSeconds int             `json:"remaining_seconds"`
	Answers          AnswerMap       `json:"answers"`
	CurrentQuestion  *PublicQuestion `json:"current_question,omitempty"`
	Report           *Report         `json:"report,omitempty"`
}
