package models

import (
	"fmt"
	"strings"
	"time"
)

// Track is the exam-preparation category a question bank belongs to.
type Track string

const (
	TrackJEE  Track = "JEE"
	TrackNEET Track = "NEET"
)

// Tracks lists every supported track.
var Tracks = []Track{TrackJEE, TrackNEET}

func (t Track) Valid() bool {
	switch t {
	case TrackJEE, TrackNEET:
		return true
	}
	return false
}

// ParseTrack accepts any casing of a known track.
func ParseTrack(s string) (Track, bool) {
	t := Track(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single-correct-choice item. Options keep the order they were
// stored in; CorrectOption is matched against answers by value.
type Question struct {
	ID            string     `json:"id"`
	Track         Track      `json:"track"`
	Prompt        string     `json:"prompt"`
	Options       []string   `json:"options"`
	CorrectOption string     `json:"correct_option"`
	Explanation   string     `json:"explanation,omitempty"`
	Subject       string     `json:"subject"`
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
}

// HasOption reports whether option is one of the listed choices.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Validate checks a question before it enters the bank.
func (q Question) Validate() error {
	switch {
	case !q.Track.Valid():
		return fmt.Errorf("unknown track %q", q.Track)
	case strings.TrimSpace(q.Prompt) == "":
		return fmt.Errorf("prompt is required")
	case len(q.Options) < 2:
		return fmt.Errorf("at least 2 options are required, got %d", len(q.Options))
	case strings.TrimSpace(q.Subject) == "":
		return fmt.Errorf("subject is required")
	case strings.TrimSpace(q.Topic) == "":
		return fmt.Errorf("topic is required")
	case !q.Difficulty.Valid():
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	case !q.HasOption(q.CorrectOption):
		return fmt.Errorf("correct option %q is not among the options", q.CorrectOption)
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if seen[o] {
			return fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = true
	}
	return nil
}

// PublicQuestion is what a test-taker sees while the session is running.
type PublicQuestion struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"prompt"`
	Options    []string   `json:"options"`
	Subject    string     `json:"subject"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
}

func (q Question) Public() PublicQuestion {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return PublicQuestion{
		ID:         q.ID,
		Prompt:     q.Prompt,
		Options:    opts,
		Subject:    q.Subject,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
	}
}

// ImportResult summarises a question bank import.
type ImportResult struct {
	Received int `json:"received"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}
