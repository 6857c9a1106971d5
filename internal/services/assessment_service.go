package services

import (
	"context"
	"sync"

	"github.com/vytor/prepdash/internal/assessment"
	"github.com/vytor/prepdash/internal/errors"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
	"github.com/vytor/prepdash/internal/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// AssessmentService owns one assessment session per student and exposes the
// session operations by student id.
type AssessmentService interface {
	Current(ctx context.Context, studentID string) (models.SessionView, error)
	Start(ctx context.Context, studentID string, track models.Track) (models.SessionView, error)
	SelectAnswer(ctx context.Context, studentID, option string) (models.SessionView, error)
	Next(ctx context.Context, studentID string) (models.SessionView, error)
	Previous(ctx context.Context, studentID string) (models.SessionView, error)
	Submit(ctx context.Context, studentID string) (*models.Report, error)
	Retake(ctx context.Context, studentID string) (models.SessionView, error)
	Report(ctx context.Context, studentID string) (*models.Report, error)
	History(ctx context.Context, studentID string, limit int) ([]models.AssessmentRecord, error)
	Close()
}

type assessmentService struct {
	selector   *assessment.Selector
	publisher  assessment.Publisher
	resultRepo repository.ResultRepository
	cfg        assessment.Config
	log        *logger.Logger

	mu       sync.Mutex
	sessions map[string]*assessment.Session
}

// NewAssessmentService creates a new AssessmentService
func NewAssessmentService(
	selector *assessment.Selector,
	publisher assessment.Publisher,
	resultRepo repository.ResultRepository,
	cfg assessment.Config,
) AssessmentService {
	return &assessmentService{
		selector:   selector,
		publisher:  publisher,
		resultRepo: resultRepo,
		cfg:        cfg,
		log:        logger.Default(),
		sessions:   make(map[string]*assessment.Session),
	}
}

func (s *assessmentService) newSession(studentID string) *assessment.Session {
	return assessment.NewSession(studentID, s.selector,
		assessment.WithConfig(s.cfg),
		assessment.WithPublisher(s.publisher),
		assessment.WithLogger(s.log),
	)
}

// session returns the student's session, creating a not-started one on first use.
func (s *assessmentService) session(studentID string) (*assessment.Session, error) {
	if studentID == "" {
		return nil, errors.NewValidationError("student_id", "cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[studentID]
	if !ok {
		sess = s.newSession(studentID)
		s.sessions[studentID] = sess
	}
	return sess, nil
}

func (s *assessmentService) Current(ctx context.Context, studentID string) (models.SessionView, error) {
	sess, err := s.session(studentID)
	if err != nil {
		return models.SessionView{}, err
	}
	return sess.View(), nil
}

// Start begins a new attempt. A completed or not-started session is
// replaced; an attempt that is still running is left alone.
func (s *assessmentService) Start(ctx context.Context, studentID string, track models.Track) (models.SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting assessment: student_id=%s, track=%s", studentID, track)

	if studentID == "" {
		return models.SessionView{}, errors.NewValidationError("student_id", "cannot be empty")
	}

	s.mu.Lock()
	sess := s.sessions[studentID]
	if sess == nil || sess.Status() == models.StatusCompleted {
		if sess != nil {
			sess.Close()
		}
		sess = s.newSession(studentID)
		s.sessions[studentID] = sess
	}
	s.mu.Unlock()

	if err := sess.Start(ctx, track); err != nil {
		return models.SessionView{}, err
	}
	return sess.View(), nil
}

func (s *assessmentService) SelectAnswer(ctx context.Context, studentID, option string) (models.SessionView, error) {
	sess, err := s.session(studentID)
	if err != nil {
		return models.SessionView{}, err
	}
	if err := sess.SelectAnswer(option); err != nil {
		return models.SessionView{}, err
	}
	return sess.View(), nil
}

func (s *assessmentService) Next(ctx context.Context, studentID string) (models.SessionView, error) {
	sess, err := s.session(studentID)
	if err != nil {
		return models.SessionView{}, err
	}
	if err := sess.Next(); err != nil {
		return models.SessionView{}, err
	}
	return sess.View(), nil
}

func (s *assessmentService) Previous(ctx context.Context, studentID string) (models.SessionView, error) {
	sess, err := s.session(studentID)
	if err != nil {
		return models.SessionView{}, err
	}
	if err := sess.Previous(); err != nil {
		return models.SessionView{}, err
	}
	return sess.View(), nil
}

func (s *assessmentService) Submit(ctx context.Context, studentID string) (*models.Report, error) {
	sess, err := s.session(studentID)
	if err != nil {
		return nil, err
	}
	return sess.Submit(ctx)
}

func (s *assessmentService) Retake(ctx context.Context, studentID string) (models.SessionView, error) {
	sess, err := s.session(studentID)
	if err != nil {
		return models.SessionView{}, err
	}
	if err := sess.Retake(); err != nil {
		return models.SessionView{}, err
	}
	return sess.View(), nil
}

// Report returns the report of the student's completed session.
func (s *assessmentService) Report(ctx context.Context, studentID string) (*models.Report, error) {
	sess, err := s.session(studentID)
	if err != nil {
		return nil, err
	}
	report := sess.Report()
	if report == nil {
		return nil, errors.NewInvalidStateError("view the report", string(sess.Status()))
	}
	return report, nil
}

// History lists the student's stored records, newest first.
func (s *assessmentService) History(ctx context.Context, studentID string, limit int) ([]models.AssessmentRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing history: student_id=%s, limit=%d", studentID, limit)

	if studentID == "" {
		return nil, errors.NewValidationError("student_id", "cannot be empty")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := s.resultRepo.ListByStudent(ctx, studentID, limit)
	if err != nil {
		log.Error("failed to list history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}

// Close stops every running countdown. Sessions are not completed.
func (s *assessmentService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.Close()
	}
}
