package assessment

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/vytor/prepdash/internal/errors"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
)

// QuestionSource returns every candidate question for a track.
type QuestionSource interface {
	QuestionsByTrack(ctx context.Context, track models.Track) ([]models.Question, error)
}

// Selector draws a random, duplicate-free subset of a track's pool.
type Selector struct {
	source QuestionSource

	mu  sync.Mutex
	rng *rand.Rand // nil uses the process-level source
}

// NewSelector creates a Selector backed by the process-level random source.
func NewSelector(source QuestionSource) *Selector {
	return &Selector{source: source}
}

// NewSeededSelector creates a Selector with its own random source, for
// reproducible draws.
func NewSeededSelector(source QuestionSource, rng *rand.Rand) *Selector {
	return &Selector{source: source, rng: rng}
}

// SelectQuestions returns exactly requiredCount questions for track in random
// order. It fails with POOL_EXHAUSTED when the pool is smaller than requested.
func (s *Selector) SelectQuestions(ctx context.Context, track models.Track, requiredCount int) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("selector")
	if requiredCount <= 0 {
		return nil, errors.NewValidationError("required_count", "must be positive")
	}

	candidates, err := s.source.QuestionsByTrack(ctx, track)
	if err != nil {
		log.Error("failed to load question pool: track=%s, err=%v", track, err)
		return nil, errors.NewInternalError(err)
	}

	pool := dedupe(candidates)
	if len(pool) < requiredCount {
		log.Warn("question pool too small: track=%s, available=%d, required=%d", track, len(pool), requiredCount)
		return nil, errors.NewPoolExhaustedError(string(track), len(pool), requiredCount)
	}

	s.shuffle(pool)
	selected := pool[:requiredCount:requiredCount]
	log.Debug("selected %d of %d questions for track=%s", len(selected), len(pool), track)
	return selected, nil
}

// shuffle is a Fisher–Yates permutation in place.
func (s *Selector) shuffle(qs []models.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(qs) - 1; i > 0; i-- {
		j := s.intN(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

func (s *Selector) intN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}

// dedupe copies candidates, keeping the first question for each id. Options
// slices are copied so callers cannot reorder a session's choices later.
func dedupe(candidates []models.Question) []models.Question {
	seen := make(map[string]bool, len(candidates))
	out := make([]models.Question, 0, len(candidates))
	for _, q := range candidates {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts
		out = append(out, q)
	}
	return out
}
