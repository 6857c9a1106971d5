package assessment_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/prepdash/internal/assessment"
	"github.com/vytor/prepdash/internal/errors"
	"github.com/vytor/prepdash/internal/models"
)

func TestAnalyze_AllCorrect(t *testing.T) {
	qs := tenQuestions()

	report, err := assessment.Analyze(qs, correctAnswers(qs))
	require.NoError(t, err)

	assert.Equal(t, 10, report.CorrectCount)
	assert.Equal(t, 10, report.TotalCount)
	for subject, perf := range report.SubjectPerformance {
		assert.Equal(t, 100, perf.Percentage, "subject %s", subject)
	}
	assert.Empty(t, report.Weaknesses)
	assert.ElementsMatch(t, []string{"Kinematics", "Organic", "Calculus"}, report.Strengths)
	assert.Equal(t, []string{assessment.PracticeRecommendation, assessment.TutorRecommendation}, report.Recommendations)
	assert.Equal(t, 100, report.ScorePercentage())
}

func TestAnalyze_ChemistryAllWrong(t *testing.T) {
	qs := tenQuestions()
	answers := correctAnswers(qs)
	for i, q := range qs {
		if q.Subject == "Chemistry" {
			answers[i] = wrongOption(q)
		}
	}

	report, err := assessment.Analyze(qs, answers)
	require.NoError(t, err)

	assert.Equal(t, 7, report.CorrectCount)
	assert.Equal(t, models.SubjectPerformance{Correct: 0, Total: 3, Percentage: 0}, report.SubjectPerformance["Chemistry"])
	assert.Contains(t, report.Recommendations, "Focus more on Chemistry — consider reviewing basic concepts.")
	assert.Equal(t, []string{"Organic"}, report.Weaknesses)
	assert.Equal(t, []string{
		"Focus more on Chemistry — consider reviewing basic concepts.",
		"Work on weak topics: Organic",
		assessment.PracticeRecommendation,
		assessment.TutorRecommendation,
	}, report.Recommendations)
}

func TestAnalyze_MissingAnswersAreIncorrect(t *testing.T) {
	qs := tenQuestions()
	answers := models.AnswerMap{0: qs[0].CorrectOption, 5: qs[5].CorrectOption}

	report, err := assessment.Analyze(qs, answers)
	require.NoError(t, err)

	assert.Equal(t, 2, report.CorrectCount)
	assert.Equal(t, 10, report.TotalCount)
	assert.Equal(t, models.SubjectPerformance{Correct: 1, Total: 4, Percentage: 25}, report.SubjectPerformance["Physics"])
}

func TestAnalyze_NilAnswers(t *testing.T) {
	report, err := assessment.Analyze(tenQuestions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.CorrectCount)
	assert.ElementsMatch(t, []string{"Kinematics", "Organic", "Calculus"}, report.Weaknesses)
}

func TestAnalyze_EmptyQuestionSet(t *testing.T) {
	_, err := assessment.Analyze(nil, models.AnswerMap{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeEmptyQuestionSet, errors.CodeOf(err))
}

func TestAnalyze_TopicThresholds(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		correct  int
		strength bool
		weakness bool
	}{
		{name: "exactly 70 percent is a strength", total: 10, correct: 7},
		{name: "60 percent is neither", total: 5, correct: 3},
		{name: "exactly 50 percent is neither", total: 2, correct: 1},
		{name: "below 50 percent is a weakness", total: 3, correct: 1},
		{name: "zero is a weakness", total: 1, correct: 0},
	}
	tests[0].strength = true
	tests[3].weakness = true
	tests[4].weakness = true

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := make([]models.Question, tt.total)
			answers := models.AnswerMap{}
			for i := range qs {
				qs[i] = question(fmt.Sprintf("t%d", i), "Physics", "Waves")
				if i < tt.correct {
					answers[i] = qs[i].CorrectOption
				}
			}

			report, err := assessment.Analyze(qs, answers)
			require.NoError(t, err)

			assert.Equal(t, tt.strength, contains(report.Strengths, "Waves"), "strength")
			assert.Equal(t, tt.weakness, contains(report.Weaknesses, "Waves"), "weakness")
		})
	}
}

func TestAnalyze_PercentageRounding(t *testing.T) {
	tests := []struct {
		total, correct, want int
	}{
		{3, 2, 67},
		{3, 1, 33},
		{8, 1, 13},
		{6, 1, 17},
		{7, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.correct, tt.total), func(t *testing.T) {
			qs := make([]models.Question, tt.total)
			answers := models.AnswerMap{}
			for i := range qs {
				qs[i] = question(fmt.Sprintf("r%d", i), "Biology", "Genetics")
				if i < tt.correct {
					answers[i] = qs[i].CorrectOption
				}
			}
			report, err := assessment.Analyze(qs, answers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.SubjectPerformance["Biology"].Percentage)
		})
	}
}

func TestAnalyze_RecommendationOrderFollowsFirstAppearance(t *testing.T) {
	qs := []models.Question{
		question("1", "Zoology", "Cells"),
		question("2", "Botany", "Plants"),
		question("3", "Zoology", "Cells"),
		question("4", "Anatomy", "Bones"),
	}

	report, err := assessment.Analyze(qs, models.AnswerMap{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Zoology", "Botany", "Anatomy"}, report.SubjectOrder)
	assert.Equal(t, []string{
		assessment.SubjectRecommendation("Zoology"),
		assessment.SubjectRecommendation("Botany"),
		assessment.SubjectRecommendation("Anatomy"),
		"Work on weak topics: Cells, Plants, Bones",
		assessment.PracticeRecommendation,
		assessment.TutorRecommendation,
	}, report.Recommendations)
}

func TestAnalyze_SubjectAtSixtyPercentNotFlagged(t *testing.T) {
	qs := make([]models.Question, 5)
	answers := models.AnswerMap{}
	for i := range qs {
		qs[i] = question(fmt.Sprintf("s%d", i), "Physics", "Heat")
		if i < 3 {
			answers[i] = qs[i].CorrectOption
		}
	}

	report, err := assessment.Analyze(qs, answers)
	require.NoError(t, err)

	assert.Equal(t, 60, report.SubjectPerformance["Physics"].Percentage)
	assert.NotContains(t, report.Recommendations, assessment.SubjectRecommendation("Physics"))
}

func TestAnalyze_DoesNotMutateInputs(t *testing.T) {
	qs := tenQuestions()
	answers := models.AnswerMap{1: qs[1].CorrectOption, 3: "junk"}
	qsBefore := tenQuestions()
	answersBefore := answers.Clone()

	_, err := assessment.Analyze(qs, answers)
	require.NoError(t, err)

	assert.Equal(t, qsBefore, qs)
	assert.Equal(t, answersBefore, answers)
}

func TestAnalyze_Deterministic(t *testing.T) {
	qs := tenQuestions()
	answers := models.AnswerMap{0: qs[0].CorrectOption, 4: qs[4].CorrectOption, 9: wrongOption(qs[9])}

	first, err := assessment.Analyze(qs, answers)
	require.NoError(t, err)
	second, err := assessment.Analyze(qs, answers)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyze_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	subjects := []string{"Physics", "Chemistry", "Mathematics", "Biology"}
	topics := []string{"Optics", "Organic", "Algebra", "Genetics", "Thermo", "Vectors"}

	for run := 0; run < 200; run++ {
		n := 1 + rng.IntN(30)
		qs := make([]models.Question, n)
		answers := models.AnswerMap{}
		for i := range qs {
			qs[i] = question(fmt.Sprintf("%d-%d", run, i), subjects[rng.IntN(len(subjects))], topics[rng.IntN(len(topics))])
			switch rng.IntN(3) {
			case 0:
				answers[i] = qs[i].CorrectOption
			case 1:
				answers[i] = wrongOption(qs[i])
			}
		}

		report, err := assessment.Analyze(qs, answers)
		require.NoError(t, err)

		wantCorrect := 0
		subjectTotals := map[string]int{}
		subjectCorrect := map[string]int{}
		for i, q := range qs {
			subjectTotals[q.Subject]++
			if a, ok := answers[i]; ok && a == q.CorrectOption {
				wantCorrect++
				subjectCorrect[q.Subject]++
			}
		}

		require.Equal(t, wantCorrect, report.CorrectCount)
		require.Equal(t, n, report.TotalCount)
		require.Len(t, report.SubjectPerformance, len(subjectTotals))
		for subject, total := range subjectTotals {
			perf := report.SubjectPerformance[subject]
			require.Equal(t, total, perf.Total)
			require.Equal(t, subjectCorrect[subject], perf.Correct)
			require.Equal(t, models.RoundPercent(perf.Correct, perf.Total), perf.Percentage)
		}
		for _, s := range report.Strengths {
			require.NotContains(t, report.Weaknesses, s)
		}
		n2 := len(report.Recommendations)
		require.GreaterOrEqual(t, n2, 2)
		require.Equal(t, assessment.PracticeRecommendation, report.Recommendations[n2-2])
		require.Equal(t, assessment.TutorRecommendation, report.Recommendations[n2-1])
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
