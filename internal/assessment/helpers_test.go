package assessment_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vytor/prepdash/internal/models"
)

// stubSource serves a fixed pool regardless of track.
type stubSource struct {
	questions []models.Question
	err       error
	calls     atomic.Int32
}

func (s *stubSource) QuestionsByTrack(ctx context.Context, track models.Track) ([]models.Question, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

// recordingPublisher counts published records.
type recordingPublisher struct {
	mu      sync.Mutex
	records []models.AssessmentRecord
}

func (p *recordingPublisher) Publish(record models.AssessmentRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, record)
}

func (p *recordingPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

func (p *recordingPublisher) Last() models.AssessmentRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.records[len(p.records)-1]
}

func question(id, subject, topic string) models.Question {
	return models.Question{
		ID:            id,
		Track:         models.TrackJEE,
		Prompt:        "Prompt " + id,
		Options:       []string{"A-" + id, "B-" + id, "C-" + id, "D-" + id},
		CorrectOption: "B-" + id,
		Subject:       subject,
		Topic:         topic,
		Difficulty:    models.DifficultyMedium,
	}
}

// tenQuestions returns 4 Physics, 3 Chemistry and 3 Mathematics questions.
func tenQuestions() []models.Question {
	var qs []models.Question
	for i := 0; i < 4; i++ {
		qs = append(qs, question(fmt.Sprintf("p%d", i), "Physics", "Kinematics"))
	}
	for i := 0; i < 3; i++ {
		qs = append(qs, question(fmt.Sprintf("c%d", i), "Chemistry", "Organic"))
	}
	for i := 0; i < 3; i++ {
		qs = append(qs, question(fmt.Sprintf("m%d", i), "Mathematics", "Calculus"))
	}
	return qs
}

func pool(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = question(fmt.Sprintf("q%02d", i), "Physics", "Optics")
	}
	return qs
}

func correctAnswers(qs []models.Question) models.AnswerMap {
	answers := make(models.AnswerMap, len(qs))
	for i, q := range qs {
		answers[i] = q.CorrectOption
	}
	return answers
}

func wrongOption(q models.Question) string {
	for _, o := range q.Options {
		if o != q.CorrectOption {
			return o
		}
	}
	panic("question has no wrong option")
}
