package socket_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/sockethub/core/socket"
)

// fakeConn is an in-memory socket.Conn.
type fakeConn struct {
	inbound chan socket.Frame
	recvErr chan error

	sendErr    error
	sendBlock  chan struct{}
	closeBlock chan struct{}
	recvPanic  bool

	mu          sync.Mutex
	sent        []string
	closeCode   socket.CloseCode
	closeReason string

	sendCalls    atomic.Int32
	closeCalls   atomic.Int32
	releaseCalls atomic.Int32
	released     chan struct{}
	releaseOnce  sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound:  make(chan socket.Frame, 8),
		recvErr:  make(chan error, 1),
		released: make(chan struct{}),
	}
}

func (c *fakeConn) Receive(ctx context.Context) (socket.Frame, error) {
	if c.recvPanic {
		panic("receive exploded")
	}
	select {
	case f := <-c.inbound:
		return f, nil
	case err := <-c.recvErr:
		return socket.Frame{}, err
	case <-c.released:
		return socket.Frame{}, socket.ErrConnClosed
	case <-ctx.Done():
		return socket.Frame{}, ctx.Err()
	}
}

func (c *fakeConn) SendText(ctx context.Context, message string) error {
	c.sendCalls.Add(1)
	if c.sendBlock != nil {
		select {
		case <-c.sendBlock:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if c.sendErr != nil {
		return c.sendErr
	}
	c.mu.Lock()
	c.sent = append(c.sent, message)
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) Close(ctx context.Context, code socket.CloseCode, reason string) error {
	c.closeCalls.Add(1)
	c.mu.Lock()
	c.closeCode, c.closeReason = code, reason
	c.mu.Unlock()

	if c.closeBlock != nil {
		select {
		case <-c.closeBlock:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (c *fakeConn) Release() error {
	c.releaseCalls.Add(1)
	c.releaseOnce.Do(func() { close(c.released) })
	return nil
}

func (c *fakeConn) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

func (c *fakeConn) CloseStatus() (socket.CloseCode, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCode, c.closeReason
}

func (c *fakeConn) isReleased() bool {
	select {
	case <-c.released:
		return true
	default:
		return false
	}
}
