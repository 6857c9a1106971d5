package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/prepdash/internal/assessment"
	"github.com/vytor/prepdash/internal/models"
)

func TestAssessmentStreamUntilCompletion(t *testing.T) {
	cfg := assessment.Config{QuestionCount: 10, DurationSeconds: 5, TickInterval: 20 * time.Millisecond}
	env := newTestEnv(t, cfg, 10*time.Millisecond)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	rec := env.do(t, http.MethodPost, "/api/assessment/start", "streamer", map[string]string{"track": "JEE"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	header := http.Header{}
	header.Set("X-Student-ID", "streamer")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/assessment/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: header})
	require.NoError(t, err)
	defer conn.CloseNow()

	var views []models.SessionView
	for {
		var view models.SessionView
		if err := wsjson.Read(ctx, conn, &view); err != nil {
			assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err), "unexpected read error: %v", err)
			break
		}
		views = append(views, view)
	}

	require.NotEmpty(t, views)
	last := views[len(views)-1]
	assert.Equal(t, models.StatusCompleted, last.Status)
	assert.Equal(t, 0, last.RemainingSeconds)
	require.NotNil(t, last.Report)
	assert.Equal(t, 10, last.Report.TotalCount)

	for i := 1; i < len(views); i++ {
		assert.LessOrEqual(t, views[i].RemainingSeconds, views[i-1].RemainingSeconds, "countdown never goes up")
	}
}

func TestAssessmentStreamRequiresStudent(t *testing.T) {
	env := newTestEnv(t, slowConfig, 0)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/assessment/ws"
	_, resp, err := websocket.Dial(ctx, wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
