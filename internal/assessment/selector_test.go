package assessment_test

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/prepdash/internal/assessment"
	"github.com/vytor/prepdash/internal/errors"
	"github.com/vytor/prepdash/internal/models"
)

func TestSelectQuestions_PoolTooSmall(t *testing.T) {
	sel := assessment.NewSelector(&stubSource{questions: pool(7)})

	qs, err := sel.SelectQuestions(context.Background(), models.TrackJEE, 10)
	require.Error(t, err)
	assert.Nil(t, qs)
	assert.Equal(t, errors.ErrCodePoolExhausted, errors.CodeOf(err))
	assert.True(t, stderrors.Is(err, errors.ErrPoolExhausted))
	assert.Contains(t, err.Error(), "7 questions available, 10 required")
}

func TestSelectQuestions_ExactSizeNoDuplicates(t *testing.T) {
	candidates := pool(25)
	sel := assessment.NewSelector(&stubSource{questions: candidates})

	qs, err := sel.SelectQuestions(context.Background(), models.TrackJEE, 10)
	require.NoError(t, err)
	require.Len(t, qs, 10)

	byID := map[string]models.Question{}
	for _, c := range candidates {
		byID[c.ID] = c
	}
	seen := map[string]bool{}
	for _, q := range qs {
		assert.False(t, seen[q.ID], "duplicate %s", q.ID)
		seen[q.ID] = true
		orig, ok := byID[q.ID]
		require.True(t, ok, "question %s not from pool", q.ID)
		assert.Equal(t, orig.Options, q.Options, "options order must be preserved")
	}
}

func TestSelectQuestions_WholePool(t *testing.T) {
	sel := assessment.NewSelector(&stubSource{questions: pool(10)})

	qs, err := sel.SelectQuestions(context.Background(), models.TrackNEET, 10)
	require.NoError(t, err)
	assert.Len(t, qs, 10)
}

func TestSelectQuestions_DuplicateCandidatesCollapsed(t *testing.T) {
	candidates := append(pool(8), pool(4)...)
	sel := assessment.NewSelector(&stubSource{questions: candidates})

	_, err := sel.SelectQuestions(context.Background(), models.TrackJEE, 10)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePoolExhausted, errors.CodeOf(err))
}

func TestSelectQuestions_SourceError(t *testing.T) {
	sel := assessment.NewSelector(&stubSource{err: stderrors.New("disk on fire")})

	_, err := sel.SelectQuestions(context.Background(), models.TrackJEE, 10)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInternal, errors.CodeOf(err))
}

func TestSelectQuestions_InvalidCount(t *testing.T) {
	src := &stubSource{questions: pool(10)}
	sel := assessment.NewSelector(src)

	_, err := sel.SelectQuestions(context.Background(), models.TrackJEE, 0)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
	assert.Zero(t, src.calls.Load())
}

func TestSelectQuestions_DoesNotAliasSourceOptions(t *testing.T) {
	candidates := pool(10)
	src := &stubSource{questions: candidates}
	sel := assessment.NewSelector(src)

	qs, err := sel.SelectQuestions(context.Background(), models.TrackJEE, 10)
	require.NoError(t, err)

	qs[0].Options[0] = "mutated"
	for _, c := range src.questions {
		assert.NotEqual(t, "mutated", c.Options[0])
	}
}

func TestSelectQuestions_SeededIsReproducible(t *testing.T) {
	src := &stubSource{questions: pool(30)}
	a := assessment.NewSeededSelector(src, rand.New(rand.NewPCG(1, 2)))
	b := assessment.NewSeededSelector(src, rand.New(rand.NewPCG(1, 2)))

	qa, err := a.SelectQuestions(context.Background(), models.TrackJEE, 10)
	require.NoError(t, err)
	qb, err := b.SelectQuestions(context.Background(), models.TrackJEE, 10)
	require.NoError(t, err)

	assert.Equal(t, qa, qb)
}

func TestSelectQuestions_RoughlyUniform(t *testing.T) {
	src := &stubSource{questions: pool(3)}
	sel := assessment.NewSeededSelector(src, rand.New(rand.NewPCG(42, 99)))

	const runs = 3000
	counts := map[string]int{}
	for range runs {
		qs, err := sel.SelectQuestions(context.Background(), models.TrackJEE, 1)
		require.NoError(t, err)
		counts[qs[0].ID]++
	}

	require.Len(t, counts, 3)
	for id, n := range counts {
		assert.InDelta(t, runs/3, n, 200, "question %s drawn %d times", id, n)
	}
}
