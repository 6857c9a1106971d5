package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", studentHeader, "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	timeout := s.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		// The websocket hijacks the connection, so it stays outside the timeout group.
		r.With(studentMiddleware).Get("/assessment/ws", s.handleAssessmentStream)

		r.Group(func(r chi.Router) {
			r.Use(timeoutMiddleware(timeout))

			r.Get("/questions/count", s.handleQuestionCount)
			r.Post("/questions/import", s.handleQuestionImport)

			r.Group(func(r chi.Router) {
				r.Use(studentMiddleware)
				r.Get("/assessment", s.handleGetAssessment)
				r.Post("/assessment/start", s.handleStartAssessment)
				r.Post("/assessment/answer", s.handleSelectAnswer)
				r.Post("/assessment/next", s.handleNextQuestion)
				r.Post("/assessment/previous", s.handlePreviousQuestion)
				r.Post("/assessment/submit", s.handleSubmitAssessment)
				r.Post("/assessment/retake", s.handleRetakeAssessment)
				r.Get("/assessment/report", s.handleAssessmentReport)
				r.Get("/assessments/history", s.handleAssessmentHistory)
			})
		})
	})
	return r
}
