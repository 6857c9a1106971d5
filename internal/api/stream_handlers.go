package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/vytor/prepdash/internal/logger"
	"github.com/vytor/prepdash/internal/models"
)

const streamWriteTimeout = 5 * time.Second

// handleAssessmentStream pushes the student's SessionView over a websocket on
// every interval until the session completes or the client goes away. The
// final message carries the completed view with its report.
func (s *Server) handleAssessmentStream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	studentID := studentFromContext(r.Context())

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.CORSOrigins),
	})
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.CloseNow()

	// Messages from the client are ignored; reading only detects disconnects.
	ctx := conn.CloseRead(r.Context())

	interval := s.StreamInterval
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Debug("assessment stream opened")
	for {
		view, err := s.AssessmentService.Current(ctx, studentID)
		if err != nil {
			log.Error("stream lookup failed: %v", err)
			_ = conn.Close(websocket.StatusInternalError, "session unavailable")
			return
		}
		if err := writeView(ctx, conn, view); err != nil {
			log.Debug("stream write ended: %v", err)
			return
		}
		if view.Status == models.StatusCompleted {
			_ = conn.Close(websocket.StatusNormalClosure, "assessment completed")
			log.Debug("assessment stream closed after completion")
			return
		}

		select {
		case <-ctx.Done():
			log.Debug("assessment stream closed by client")
			return
		case <-ticker.C:
		}
	}
}

func writeView(ctx context.Context, conn *websocket.Conn, view models.SessionView) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, view)
}

// originPatterns turns CORS origins such as "http://localhost:5173" into the
// host patterns websocket.Accept matches against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			patterns = append(patterns, "*")
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
