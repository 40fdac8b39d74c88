package socket_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sockethub/core/socket"
)

// serve runs reg.Serve in the background and waits until conn is registered.
func serve(t *testing.T, ctx context.Context, reg *socket.Registry[int], key int, conn *fakeConn) <-chan error {
	t.Helper()

	before := reg.Stats().Registered
	done := make(chan error, 1)
	go func() { done <- reg.Serve(ctx, key, conn) }()

	require.Eventually(t, func() bool {
		return reg.Stats().Registered > before
	}, 2*time.Second, 5*time.Millisecond)
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
		return nil
	}
}

func TestServe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil connection", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		require.ErrorIs(t, reg.Serve(ctx, 1, nil), socket.ErrNilConn)
	})

	t.Run("echoes the peer close status", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		conn := newFakeConn()
		done := serve(t, ctx, reg, 1, conn)

		conn.inbound <- socket.Frame{Type: socket.FrameClose, CloseCode: 4000, CloseReason: "bye"}

		require.NoError(t, wait(t, done))
		code, reason := conn.CloseStatus()
		assert.Equal(t, socket.CloseCode(4000), code)
		assert.Equal(t, "bye", reason)
		assert.Equal(t, int32(1), conn.releaseCalls.Load())
		assert.Zero(t, reg.Stats().Active)
	})

	t.Run("close without status is answered with normal closure", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		conn := newFakeConn()
		done := serve(t, ctx, reg, 1, conn)

		conn.inbound <- socket.Frame{Type: socket.FrameClose, CloseCode: socket.CloseNoStatusReceived}

		require.NoError(t, wait(t, done))
		code, _ := conn.CloseStatus()
		assert.Equal(t, socket.CloseNormalClosure, code)
	})

	t.Run("inbound data is discarded", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		conn := newFakeConn()
		done := serve(t, ctx, reg, 1, conn)

		conn.inbound <- socket.Frame{Type: socket.FrameText, Data: []byte("hello")}
		conn.inbound <- socket.Frame{Type: socket.FrameBinary, Data: []byte{0x01}}
		conn.inbound <- socket.Frame{Type: socket.FrameClose, CloseCode: socket.CloseNormalClosure}

		require.NoError(t, wait(t, done))
		assert.Empty(t, conn.Sent())
		assert.Equal(t, int64(2), reg.Stats().Discarded)
	})

	t.Run("receives broadcasts while serving", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		conn := newFakeConn()
		done := serve(t, ctx, reg, 3, conn)

		reg.Broadcast(ctx, 3, "ping")
		assert.Equal(t, []string{"ping"}, conn.Sent())

		conn.inbound <- socket.Frame{Type: socket.FrameClose, CloseCode: socket.CloseNormalClosure}
		require.NoError(t, wait(t, done))
	})

	t.Run("unexpected receive error", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		conn := newFakeConn()
		done := serve(t, ctx, reg, 1, conn)

		reset := errors.New("connection reset by peer")
		conn.recvErr <- reset

		require.ErrorIs(t, wait(t, done), reset)
		assert.True(t, conn.isReleased())
		assert.Zero(t, reg.Stats().Active)
	})

	t.Run("closed transport ends quietly", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		conn := newFakeConn()
		done := serve(t, ctx, reg, 1, conn)

		conn.recvErr <- socket.ErrConnClosed

		require.NoError(t, wait(t, done))
		assert.True(t, conn.isReleased())
	})

	t.Run("context cancellation closes with going away", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		conn := newFakeConn()
		cctx, cancel := context.WithCancel(ctx)
		done := serve(t, cctx, reg, 1, conn)

		cancel()

		require.NoError(t, wait(t, done))
		code, _ := conn.CloseStatus()
		assert.Equal(t, socket.CloseGoingAway, code)
		assert.Zero(t, reg.Stats().Active)
	})

	t.Run("panic closes with internal error", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		conn := newFakeConn()
		conn.recvPanic = true

		err := reg.Serve(ctx, 1, conn)

		require.Error(t, err)
		code, _ := conn.CloseStatus()
		assert.Equal(t, socket.CloseInternalServerErr, code)
		assert.Equal(t, int32(1), conn.releaseCalls.Load())
		assert.Zero(t, reg.Stats().Active)
	})

	t.Run("drain ends the session", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		conn := newFakeConn()
		done := serve(t, ctx, reg, 1, conn)

		reg.DrainAll(time.Second)

		require.NoError(t, wait(t, done))
		code, reason := conn.CloseStatus()
		assert.Equal(t, socket.CloseGoingAway, code)
		assert.Equal(t, socket.ShutdownReason, reason)
		assert.Equal(t, int32(1), conn.closeCalls.Load())
		assert.Equal(t, int32(1), conn.releaseCalls.Load())
	})

	t.Run("refused after drain", func(t *testing.T) {
		t.Parallel()

		reg := socket.New[int]()
		reg.DrainAll(time.Second)

		conn := newFakeConn()
		require.ErrorIs(t, reg.Serve(ctx, 1, conn), socket.ErrRegistryClosed)
		assert.True(t, conn.isReleased())
	})
}
