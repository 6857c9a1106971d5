package assessment

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/prepdash/internal/errors"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
)

// DefaultQuestionCount is the number of questions in one assessment.
const DefaultQuestionCount = 10

// Config sizes a session.
type Config struct {
	QuestionCount   int
	DurationSeconds int
	TickInterval    time.Duration
}

// DefaultConfig returns ten questions over ten minutes, ticking each second.
func DefaultConfig() Config {
	return Config{
		QuestionCount:   DefaultQuestionCount,
		DurationSeconds: DefaultDuration,
		TickInterval:    time.Second,
	}
}

// Session is one student's assessment attempt: not-started, then
// in-progress, then completed. It is safe for concurrent use; the countdown
// runs on its own goroutine and completes the session when it expires.
type Session struct {
	cfg       Config
	studentID string
	selector  *Selector
	publisher Publisher
	log       *logger.Logger
	now       func() time.Time

	mu        sync.Mutex
	id        string
	status    models.Status
	track     models.Track
	questions []models.Question
	position  int
	answers   models.AnswerMap
	report    *models.Report
	timer     *Timer

	// submitted is the exactly-once guard shared by manual submit and
	// timer expiry.
	submitted atomic.Bool
}

// Option configures a Session.
type Option func(*Session)

// WithConfig overrides the default question count, duration and tick interval.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		if cfg.QuestionCount > 0 {
			s.cfg.QuestionCount = cfg.QuestionCount
		}
		if cfg.DurationSeconds > 0 {
			s.cfg.DurationSeconds = cfg.DurationSeconds
		}
		if cfg.TickInterval > 0 {
			s.cfg.TickInterval = cfg.TickInterval
		}
	}
}

// WithPublisher sets where completed records are sent.
func WithPublisher(p Publisher) Option {
	return func(s *Session) {
		s.publisher = p
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithClock overrides time.Now for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates a not-started session for studentID.
func NewSession(studentID string, selector *Selector, opts ...Option) *Session {
	s := &Session{
		cfg:       DefaultConfig(),
		studentID: studentID,
		selector:  selector,
		publisher: NopPublisher{},
		log:       logger.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithPrefix("session").WithField("student_id", studentID)
	s.resetLocked()
	return s
}

// resetLocked puts the session into a fresh not-started state.
func (s *Session) resetLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.id = uuid.NewString()
	s.status = models.StatusNotStarted
	s.track = ""
	s.questions = nil
	s.position = 0
	s.answers = nil
	s.report = nil
	s.timer = nil
	s.submitted.Store(false)
}

func (s *Session) invalidState(operation string) error {
	s.log.Warn("rejected %s: session_id=%s, status=%s", operation, s.id, s.status)
	return errors.NewInvalidStateError(operation, string(s.status))
}

// Start draws the questions for track and starts the countdown. A selection
// failure leaves the session not-started.
func (s *Session) Start(ctx context.Context, track models.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.StatusNotStarted {
		return s.invalidState("start")
	}
	if !track.Valid() {
		return errors.NewValidationError("track", "must be one of JEE, NEET")
	}

	questions, err := s.selector.SelectQuestions(ctx, track, s.cfg.QuestionCount)
	if err != nil {
		return err
	}

	s.track = track
	s.questions = questions
	s.answers = make(models.AnswerMap)
	s.position = 0
	s.report = nil
	s.submitted.Store(false)
	s.status = models.StatusInProgress

	timer := NewTimer(s.cfg.DurationSeconds, s.cfg.TickInterval)
	s.timer = timer
	timer.Start(nil, func() { s.expire(timer) })

	s.log.Info("assessment started: session_id=%s, track=%s, questions=%d, duration=%ds",
		s.id, track, len(questions), s.cfg.DurationSeconds)
	return nil
}

// SelectAnswer records option for the current question. The option must be
// one of the question's listed choices.
func (s *Session) SelectAnswer(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.StatusInProgress {
		return s.invalidState("select an answer")
	}
	q := s.questions[s.position]
	if !q.HasOption(option) {
		return errors.NewInvalidAnswerError(option, s.position)
	}
	s.answers[s.position] = option
	return nil
}

// Next moves to the following question. Advancing from the final question
// is rejected; the caller must submit instead.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.StatusInProgress {
		return s.invalidState("advance")
	}
	if s.position >= len(s.questions)-1 {
		return s.invalidState("advance past the final question")
	}
	s.position++
	return nil
}

// Previous moves to the preceding question, staying on the first one.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.StatusInProgress {
		return s.invalidState("go back")
	}
	if s.position > 0 {
		s.position--
	}
	return nil
}

// Submit completes the session from the final question and returns the
// report. Submitting a completed session is a no-op that returns the
// existing report.
func (s *Session) Submit(ctx context.Context) (*models.Report, error) {
	s.mu.Lock()
	switch s.status {
	case models.StatusCompleted:
		report := *s.report
		s.mu.Unlock()
		return &report, nil
	case models.StatusNotStarted:
		err := s.invalidState("submit")
		s.mu.Unlock()
		return nil, err
	}
	if s.position != len(s.questions)-1 {
		err := s.invalidState("submit before the final question")
		s.mu.Unlock()
		return nil, err
	}

	record, completed, err := s.completeLocked("manual")
	var report models.Report
	if s.report != nil {
		report = *s.report
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if completed {
		s.publisher.Publish(record)
	}
	return &report, nil
}

// expire is the timer's completion path. A stale timer from an earlier
// attempt is ignored.
func (s *Session) expire(t *Timer) {
	if s.submitted.Load() {
		return
	}
	s.mu.Lock()
	if s.timer != t || s.status != models.StatusInProgress {
		s.mu.Unlock()
		return
	}
	record, completed, err := s.completeLocked("timer")
	s.mu.Unlock()

	if err != nil {
		return
	}
	if completed {
		s.publisher.Publish(record)
	}
}

// completeLocked scores the session and moves it to completed. The boolean
// is false when another path already won the submission guard.
func (s *Session) completeLocked(trigger string) (models.AssessmentRecord, bool, error) {
	if !s.submitted.CompareAndSwap(false, true) {
		return models.AssessmentRecord{}, false, nil
	}
	s.timer.Stop()

	report, err := Analyze(s.questions, s.answers)
	if err != nil {
		s.log.Error("scoring failed: session_id=%s, err=%v", s.id, err)
		return models.AssessmentRecord{}, false, err
	}
	s.report = &report
	s.status = models.StatusCompleted

	s.log.Info("assessment completed: session_id=%s, trigger=%s, correct=%d/%d, remaining=%ds",
		s.id, trigger, report.CorrectCount, report.TotalCount, s.timer.Remaining())

	return models.AssessmentRecord{
		ID:           uuid.NewString(),
		StudentID:    s.studentID,
		SessionID:    s.id,
		Track:        s.track,
		TotalCount:   report.TotalCount,
		CorrectCount: report.CorrectCount,
		Report:       report,
		CompletedAt:  s.now().UTC(),
	}, true, nil
}

// Retake discards a completed attempt and returns to a fresh not-started
// session with a new id.
func (s *Session) Retake() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.StatusCompleted {
		return s.invalidState("retake")
	}
	previous := s.id
	s.resetLocked()
	s.log.Info("assessment reset for retake: previous_session_id=%s, session_id=%s", previous, s.id)
	return nil
}

// Close stops the countdown without completing the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Status() models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) CurrentPosition() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// RemainingSeconds is the full duration before start and frozen once completed.
func (s *Session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

func (s *Session) remainingLocked() int {
	if s.timer == nil {
		return s.cfg.DurationSeconds
	}
	return s.timer.Remaining()
}

// Report returns the report of a completed session, or nil.
func (s *Session) Report() *models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil
	}
	report := *s.report
	return &report
}

// Questions returns a copy of the session's question sequence.
func (s *Session) Questions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// View returns a snapshot for display. Correct options are never included.
func (s *Session) View() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := models.SessionView{
		SessionID:        s.id,
		Status:           s.status,
		Track:            s.track,
		CurrentPosition:  s.position,
		TotalCount:       len(s.questions),
		RemainingSeconds: s.remainingLocked(),
		Answers:          s.answers.Clone(),
	}
	if s.status == models.StatusInProgress {
		q := s.questions[s.position].Public()
		view.CurrentQuestion = &q
	}
	if s.report != nil {
		report := *s.report
		view.Report = &report
	}
	return view
}
