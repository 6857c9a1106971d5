package assessment

import (
	"fmt"
	"strings"

	"github.com/vytor/prepdash/internal/errors"
	"github.com/vytor/prepdash/internal/models"
)

// Classification thresholds, as fractions of correct answers.
const (
	StrengthThreshold      = 0.70
	WeaknessThreshold      = 0.50
	SubjectFocusPercentage = 60
)

// Fixed closing recommendations, always appended last.
const (
	PracticeRecommendation = "Regular practice with mock tests will help improve your performance."
	TutorRecommendation    = "Use the AI Tutor for personalized help on difficult topics."
)

type tally struct {
	correct int
	total   int
}

// orderedTally accumulates counts per label and remembers first appearance.
type orderedTally struct {
	order  []string
	counts map[string]*tally
}

func newOrderedTally() *orderedTally {
	return &orderedTally{counts: make(map[string]*tally)}
}

func (o *orderedTally) add(label string, correct bool) {
	t, ok := o.counts[label]
	if !ok {
		t = &tally{}
		o.counts[label] = t
		o.order = append(o.order, label)
	}
	t.total++
	if correct {
		t.correct++
	}
}

// Analyze scores answers against questions and builds the performance report.
// Missing answers count as incorrect. Inputs are never modified.
func Analyze(questions []models.Question, answers models.AnswerMap) (models.Report, error) {
	if len(questions) == 0 {
		return models.Report{}, errors.NewEmptyQuestionSetError()
	}

	subjects := newOrderedTally()
	topics := newOrderedTally()
	correctCount := 0

	for i, q := range questions {
		answer, answered := answers[i]
		correct := answered && answer == q.CorrectOption
		if correct {
			correctCount++
		}
		subjects.add(q.Subject, correct)
		topics.add(q.Topic, correct)
	}

	report := models.Report{
		CorrectCount:       correctCount,
		TotalCount:         len(questions),
		SubjectPerformance: make(map[string]models.SubjectPerformance, len(subjects.order)),
		SubjectOrder:       subjects.order,
		Strengths:          []string{},
		Weaknesses:         []string{},
	}

	for _, subject := range subjects.order {
		t := subjects.counts[subject]
		report.SubjectPerformance[subject] = models.SubjectPerformance{
			Correct:    t.correct,
			Total:      t.total,
			Percentage: models.RoundPercent(t.correct, t.total),
		}
	}

	for _, topic := range topics.order {
		t := topics.counts[topic]
		accuracy := float64(t.correct) / float64(t.total)
		switch {
		case accuracy >= StrengthThreshold:
			report.Strengths = append(report.Strengths, topic)
		case accuracy < WeaknessThreshold:
			report.Weaknesses = append(report.Weaknesses, topic)
		}
	}

	report.Recommendations = recommendations(report)
	return report, nil
}

func recommendations(report models.Report) []string {
	var out []string
	for _, subject := range report.SubjectOrder {
		if report.SubjectPerformance[subject].Percentage < SubjectFocusPercentage {
			out = append(out, SubjectRecommendation(subject))
		}
	}
	if len(report.Weaknesses) > 0 {
		out = append(out, WeakTopicsRecommendation(report.Weaknesses))
	}
	return append(out, PracticeRecommendation, TutorRecommendation)
}

// SubjectRecommendation is emitted for every subject scoring under 60%.
func SubjectRecommendation(subject string) string {
	return fmt.Sprintf("Focus more on %s — consider reviewing basic concepts.", subject)
}

// WeakTopicsRecommendation lists every weak topic on one line.
func WeakTopicsRecommendation(topics []string) string {
	return "Work on weak topics: " + strings.Join(topics, ", ")
}
