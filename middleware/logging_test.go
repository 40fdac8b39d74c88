package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sockethub/middleware"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) records(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func newJSONLogger(buf *syncBuffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		level  string
	}{
		{name: "ok", status: http.StatusOK, level: "INFO"},
		{name: "client error", status: http.StatusBadRequest, level: "WARN"},
		{name: "server error", status: http.StatusBadGateway, level: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &syncBuffer{}
			h := middleware.RequestID()(middleware.Logging(newJSONLogger(buf))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("body"))
				})))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/post/7", nil))

			recs := buf.records(t)
			require.Len(t, recs, 1)
			rec := recs[0]
			assert.Equal(t, tt.level, rec["level"])
			assert.Equal(t, "http", rec["component"])
			assert.Equal(t, "POST", rec["method"])
			assert.Equal(t, "/post/7", rec["path"])
			assert.EqualValues(t, tt.status, rec["status_code"])
			assert.EqualValues(t, 4, rec["bytes_out"])
			assert.Equal(t, w.Header().Get("X-Request-ID"), rec["request_id"])
		})
	}
}

func TestLoggingSkip(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	h := middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: newJSONLogger(buf),
		Skip:   func(r *http.Request) bool { return strings.HasPrefix(r.URL.Path, "/health") },
	})(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Empty(t, buf.records(t))
}

func TestLoggingKeepsWebsocketUpgradeWorking(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	upgrader := websocket.Upgrader{}
	h := middleware.Logging(newJSONLogger(buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		_ = ws.WriteMessage(websocket.TextMessage, []byte("hello"))
		_, _, _ = ws.ReadMessage()
	}))

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(msg))

	require.NoError(t, ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = ws.Close()

	require.Eventually(t, func() bool { return len(buf.records(t)) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.EqualValues(t, http.StatusSwitchingProtocols, buf.records(t)[0]["status_code"])
}
