package socket

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// State is the lifecycle state of a registered connection.
type State int32

const (
	StateRegistering State = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRegistering:
		return "registering"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// handle is the registry's reference to one connection. It is shared by the
// owning session and the registry; only the open->closing transition decides
// who closes it.
type handle struct {
	id    string
	conn  Conn
	state atomic.Int32

	// writeSlot serializes SendText. Acquiring it respects the caller's
	// context so a writer stuck on a slow peer makes later senders time out.
	writeSlot chan struct{}
	closed    chan struct{}
}

func newHandle(id string, conn Conn) *handle {
	h := &handle{
		id:        id,
		conn:      conn,
		writeSlot: make(chan struct{}, 1),
		closed:    make(chan struct{}),
	}
	h.state.Store(int32(StateRegistering))
	return h
}

func (h *handle) State() State {
	return State(h.state.Load())
}

func (h *handle) open() bool {
	return h.State() == StateOpen
}

func (h *handle) markOpen() bool {
	return h.state.CompareAndSwap(int32(StateRegistering), int32(StateOpen))
}

func (h *handle) send(ctx context.Context, message string) error {
	select {
	case h.writeSlot <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrSendTimeout, ctx.Err())
	case <-h.closed:
		return ErrConnClosed
	}
	defer func() { <-h.writeSlot }()

	if !h.open() {
		return ErrConnClosed
	}

	return guard(func() error { return h.conn.SendText(ctx, message) })
}

// close runs the graceful close and releases the transport. Only the first
// caller to move the handle out of an active state does the work; everyone
// else gets false and a nil error.
func (h *handle) close(ctx context.Context, code CloseCode, reason string) (bool, error) {
	if !h.state.CompareAndSwap(int32(StateOpen), int32(StateClosing)) &&
		!h.state.CompareAndSwap(int32(StateRegistering), int32(StateClosing)) {
		return false, nil
	}
	defer func() {
		h.state.Store(int32(StateClosed))
		close(h.closed)
	}()

	if !code.sendable() {
		code = CloseNormalClosure
	}

	closeErr := guard(func() error { return h.conn.Close(ctx, code, reason) })
	releaseErr := guard(h.conn.Release)

	return true, errors.Join(closeErr, releaseErr)
}

// guard converts a panic inside a transport call into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("socket: transport panic: %v", r)
		}
	}()
	return fn()
}
