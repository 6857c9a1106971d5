package api

import (
	"net/http"

	"github.com/vytor/prepdash/internal/errors"
	"github.com/vytor/prepdash/internal/models"
)

func (s *Server) handleQuestionCount(w http.ResponseWriter, r *http.Request) {
	track, ok := models.ParseTrack(r.URL.Query().Get("track"))
	if !ok {
		handleError(w, r, errors.NewValidationError("track", "must be one of JEE, NEET"))
		return
	}

	count, err := s.QuestionService.Count(r.Context(), track)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"track": track, "count": count})
}

func (s *Server) handleQuestionImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodyBytes)

	var questions []models.Question
	if err := decodeJSON(r, &questions); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.QuestionService.Import(r.Context(), questions)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}
