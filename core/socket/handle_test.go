package socket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	closes   atomic.Int32
	releases atomic.Int32
	code     atomic.Int32
	panicky  bool
	block    chan struct{}
}

func (c *stubConn) Receive(ctx context.Context) (Frame, error) {
	<-ctx.Done()
	return Frame{}, ctx.Err()
}

func (c *stubConn) SendText(ctx context.Context, _ string) error {
	if c.panicky {
		panic("write on torn connection")
	}
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (c *stubConn) Close(_ context.Context, code CloseCode, _ string) error {
	c.closes.Add(1)
	c.code.Store(int32(code))
	return nil
}

func (c *stubConn) Release() error {
	c.releases.Add(1)
	return errors.New("already released")
}

func TestCloseCode_Sendable(t *testing.T) {
	t.Parallel()

	for code, want := range map[CloseCode]bool{
		999:  false,
		1000: true,
		1001: true,
		1004: false,
		1005: false,
		1006: false,
		1011: true,
		1015: false,
		2000: false,
		3000: true,
		4999: true,
		5000: false,
	} {
		assert.Equal(t, want, code.sendable(), "code %d", code)
	}
}

func TestHandle_CloseOnce(t *testing.T) {
	t.Parallel()

	conn := &stubConn{}
	h := newHandle("a", conn)
	require.True(t, h.markOpen())

	var winners atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := h.close(context.Background(), CloseGoingAway, ""); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	assert.Equal(t, int32(1), conn.closes.Load())
	assert.Equal(t, int32(1), conn.releases.Load())
	assert.Equal(t, StateClosed, h.State())
}

func TestHandle_CloseReportsReleaseError(t *testing.T) {
	t.Parallel()

	h := newHandle("a", &stubConn{})
	ok, err := h.close(context.Background(), CloseNormalClosure, "")
	assert.True(t, ok, "registering handles can be closed")
	require.Error(t, err)
}

func TestHandle_UnsendableCodeBecomesNormal(t *testing.T) {
	t.Parallel()

	conn := &stubConn{}
	h := newHandle("a", conn)
	h.markOpen()

	_, _ = h.close(context.Background(), CloseAbnormalClosure, "")
	assert.Equal(t, int32(CloseNormalClosure), conn.code.Load())
}

func TestHandle_Send(t *testing.T) {
	t.Parallel()

	t.Run("not open", func(t *testing.T) {
		t.Parallel()

		h := newHandle("a", &stubConn{})
		require.ErrorIs(t, h.send(context.Background(), "x"), ErrConnClosed)
	})

	t.Run("panic becomes error", func(t *testing.T) {
		t.Parallel()

		h := newHandle("a", &stubConn{panicky: true})
		h.markOpen()
		require.Error(t, h.send(context.Background(), "x"))
	})

	t.Run("queued sender times out", func(t *testing.T) {
		t.Parallel()

		conn := &stubConn{block: make(chan struct{})}
		h := newHandle("a", conn)
		h.markOpen()

		first := make(chan error, 1)
		go func() { first <- h.send(context.Background(), "slow") }()
		require.Eventually(t, func() bool { return len(h.writeSlot) == 1 }, time.Second, time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		require.ErrorIs(t, h.send(ctx, "queued"), ErrSendTimeout)

		close(conn.block)
		require.NoError(t, <-first)
	})
}
