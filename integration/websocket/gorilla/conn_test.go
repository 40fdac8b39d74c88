package gorilla_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sockethub/core/socket"
	"github.com/dmitrymomot/sockethub/integration/websocket/gorilla"
)

// largeMessage does not fit into loopback socket buffers.
var largeMessage = strings.Repeat("x", 32<<20)

// acceptOne returns the server side of a single websocket connection whose
// client never reads.
func acceptOne(t *testing.T) *websocket.Conn {
	t.Helper()

	accepted := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- ws
	}))
	t.Cleanup(server.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	select {
	case ws := <-accepted:
		t.Cleanup(func() { _ = ws.Close() })
		return ws
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the connection")
		return nil
	}
}

func TestConn_SendText(t *testing.T) {
	t.Parallel()

	t.Run("cancellation aborts a blocked write", func(t *testing.T) {
		t.Parallel()

		conn := gorilla.Wrap(acceptOne(t))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		time.AfterFunc(200*time.Millisecond, cancel)

		start := time.Now()
		err := conn.SendText(ctx, largeMessage)

		require.ErrorIs(t, err, socket.ErrSendTimeout)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("deadline bounds a blocked write", func(t *testing.T) {
		t.Parallel()

		conn := gorilla.Wrap(acceptOne(t))

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := conn.SendText(ctx, largeMessage)

		require.ErrorIs(t, err, socket.ErrSendTimeout)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("already cancelled context writes nothing", func(t *testing.T) {
		t.Parallel()

		conn := gorilla.Wrap(acceptOne(t))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := conn.SendText(ctx, "ping")
		require.ErrorIs(t, err, socket.ErrSendTimeout)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
