package coder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/coder/websocket"

	"github.com/dmitrymomot/sockethub/core/socket"
)

// DefaultReadLimit caps a single inbound message.
const DefaultReadLimit = 4096

// Conn wraps a *websocket.Conn as a socket.Conn.
type Conn struct {
	ws *websocket.Conn
}

var _ socket.Conn = (*Conn)(nil)

// Wrap adapts ws and applies the read limit.
func Wrap(ws *websocket.Conn, opts ...Option) *Conn {
	return wrap(ws, newConfig(opts...))
}

func wrap(ws *websocket.Conn, cfg *config) *Conn {
	ws.SetReadLimit(cfg.readLimit)
	return &Conn{ws: ws}
}

// Receive reads the next frame. When ctx ends, Receive starts the close
// handshake with going away and returns ctx.Err() once the read unblocks.
// A peer that never answers the handshake is dropped after
// socket.DefaultCloseTimeout.
func (c *Conn) Receive(ctx context.Context) (socket.Frame, error) {
	if err := ctx.Err(); err != nil {
		return socket.Frame{}, err
	}

	// coder/websocket drops the TCP connection when the read context ends,
	// so the read runs on its own context and ctx only triggers the close.
	readCtx, cancelRead := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelRead()
	stop := context.AfterFunc(ctx, func() {
		force := time.AfterFunc(socket.DefaultCloseTimeout, cancelRead)
		defer force.Stop()
		_ = c.ws.Close(websocket.StatusGoingAway, "")
	})
	defer stop()

	typ, data, err := c.ws.Read(readCtx)
	if err != nil {
		if ctx.Err() != nil {
			return socket.Frame{}, ctx.Err()
		}
		var ce websocket.CloseError
		if errors.As(err, &ce) {
			return socket.Frame{
				Type:        socket.FrameClose,
				CloseCode:   socket.CloseCode(ce.Code),
				CloseReason: ce.Reason,
			}, nil
		}
		return socket.Frame{}, wrapErr(err)
	}

	if typ == websocket.MessageText {
		return socket.Frame{Type: socket.FrameText, Data: data}, nil
	}
	return socket.Frame{Type: socket.FrameBinary, Data: data}, nil
}

// SendText writes message as a single text frame, bounded by ctx.
func (c *Conn) SendText(ctx context.Context, message string) error {
	if err := c.ws.Write(ctx, websocket.MessageText, []byte(message)); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", socket.ErrSendTimeout, ctx.Err())
		}
		return wrapErr(err)
	}
	return nil
}

// Close runs the close handshake. coder/websocket bounds the handshake on its
// own; ctx additionally aborts it, dropping the connection.
func (c *Conn) Close(ctx context.Context, code socket.CloseCode, reason string) error {
	done := make(chan error, 1)
	go func() {
		done <- c.ws.Close(websocket.StatusCode(code), reason)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, net.ErrClosed) {
			return wrapErr(err)
		}
		return nil
	case <-ctx.Done():
		_ = c.ws.CloseNow()
		return ctx.Err()
	}
}

// Release drops the connection without a close handshake.
func (c *Conn) Release() error {
	if err := c.ws.CloseNow(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func wrapErr(err error) error {
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		websocket.CloseStatus(err) != -1:
		return fmt.Errorf("%w: %w", socket.ErrConnClosed, err)
	default:
		return err
	}
}
