package api

import (
	"net/http"

	"github.com/vytor/prepdash/internal/logger"
)

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.PublishPool != nil {
		body["publish_queue"] = s.PublishPool.Stats()
	}
	writeJSON(w, r, http.StatusOK, body)
}

// handleReady returns a readiness probe. Returns 200 if the database
// answers a ping, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.DB != nil {
		if err := s.DB.Health(r.Context()); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "database": err.Error()})
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ready"})
}
