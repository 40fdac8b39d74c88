package gorilla

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/sockethub/core/socket"
)

// DefaultReadLimit caps a single inbound message.
const DefaultReadLimit = 4096

// Conn wraps a *websocket.Conn as a socket.Conn.
type Conn struct {
	ws *websocket.Conn
}

var _ socket.Conn = (*Conn)(nil)

// Wrap adapts ws. Only WithReadLimit is relevant here; other options are
// ignored.
func Wrap(ws *websocket.Conn, opts ...Option) *Conn {
	return wrap(ws, newConfig(opts...))
}

func wrap(ws *websocket.Conn, cfg *config) *Conn {
	ws.SetReadLimit(cfg.readLimit)
	ws.SetCloseHandler(func(int, string) error { return nil })
	return &Conn{ws: ws}
}

// Receive reads the next message. A close frame from the peer is returned as
// a socket.FrameClose frame.
func (c *Conn) Receive(ctx context.Context) (socket.Frame, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = c.ws.NetConn().SetReadDeadline(time.Now())
	})
	defer stop()

	typ, data, err := c.ws.ReadMessage()
	if err != nil {
		var ce *websocket.CloseError
		if errors.As(err, &ce) {
			return socket.Frame{
				Type:        socket.FrameClose,
				CloseCode:   socket.CloseCode(ce.Code),
				CloseReason: ce.Text,
			}, nil
		}
		if ctx.Err() != nil {
			return socket.Frame{}, ctx.Err()
		}
		return socket.Frame{}, wrapErr(err)
	}

	switch typ {
	case websocket.TextMessage:
		return socket.Frame{Type: socket.FrameText, Data: data}, nil
	default:
		return socket.Frame{Type: socket.FrameBinary, Data: data}, nil
	}
}

// SendText writes message as a single text frame. The write is bounded by
// ctx's deadline and aborted when ctx is cancelled.
//
// A write interrupted mid-frame leaves the connection unusable; the registry
// prunes it on the returned error.
func (c *Conn) SendText(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", socket.ErrSendTimeout, err)
	}

	// The websocket's own write deadline is only read by the writing
	// goroutine; cancellation goes to the net.Conn, which allows concurrent
	// deadline updates.
	deadline, _ := ctx.Deadline()
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return wrapErr(err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.ws.NetConn().SetWriteDeadline(time.Now())
	})
	defer stop()

	if err := c.ws.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", socket.ErrSendTimeout, ctx.Err())
		}
		// The network deadline can fire just before ctx's own timer.
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return fmt.Errorf("%w: %w", socket.ErrSendTimeout, err)
		}
		return wrapErr(err)
	}
	return nil
}

// Close writes a close frame with code and reason. It does not wait for the
// peer's reply; Release tears the connection down afterwards.
func (c *Conn) Close(ctx context.Context, code socket.CloseCode, reason string) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(socket.DefaultCloseTimeout)
	}

	msg := websocket.FormatCloseMessage(int(code), reason)
	if err := c.ws.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return wrapErr(err)
	}
	return nil
}

// Release closes the underlying network connection.
func (c *Conn) Release() error {
	if err := c.ws.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// wrapErr marks errors of an already terminated transport with
// socket.ErrConnClosed.
func wrapErr(err error) error {
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, websocket.ErrCloseSent):
		return fmt.Errorf("%w: %w", socket.ErrConnClosed, err)
	default:
		return err
	}
}
