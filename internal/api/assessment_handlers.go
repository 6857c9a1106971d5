package api

import (
	"net/http"
	"strings"

	"github.com/vytor/prepdash/internal/errors"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
)

type startRequest struct {
	Track string `json:"track"`
}

type answerRequest struct {
	Option string `json:"option"`
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	view, err := s.AssessmentService.Current(r.Context(), studentFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleStartAssessment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	track, ok := models.ParseTrack(req.Track)
	if !ok {
		handleError(w, r, errors.NewValidationError("track", "must be one of JEE, NEET"))
		return
	}

	log.Debug("start requested: track=%s", track)
	view, err := s.AssessmentService.Start(r.Context(), studentFromContext(r.Context()), track)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Option) == "" {
		handleError(w, r, errors.NewValidationError("option", "cannot be empty"))
		return
	}

	view, err := s.AssessmentService.SelectAnswer(r.Context(), studentFromContext(r.Context()), req.Option)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	view, err := s.AssessmentService.Next(r.Context(), studentFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handlePreviousQuestion(w http.ResponseWriter, r *http.Request) {
	view, err := s.AssessmentService.Previous(r.Context(), studentFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	report, err := s.AssessmentService.Submit(r.Context(), studentFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reportResponse(report))
}

func (s *Server) handleRetakeAssessment(w http.ResponseWriter, r *http.Request) {
	view, err := s.AssessmentService.Retake(r.Context(), studentFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleAssessmentReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.AssessmentService.Report(r.Context(), studentFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reportResponse(report))
}

func (s *Server) handleAssessmentHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	records, err := s.AssessmentService.History(r.Context(), studentFromContext(r.Context()), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

// reportResponse adds the overall score the dashboard displays.
func reportResponse(report *models.Report) map[string]any {
	return map[string]any{
		"report":           report,
		"score_percentage": report.ScorePercentage(),
	}
}
