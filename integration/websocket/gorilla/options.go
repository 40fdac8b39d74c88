package gorilla

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type config struct {
	upgrader       *websocket.Upgrader
	responseHeader http.Header
	readLimit      int64
	onError        func(context.Context, error)
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  DefaultReadLimit,
			WriteBufferSize: DefaultReadLimit,
		},
		readLimit: DefaultReadLimit,
		onError:   func(context.Context, error) {},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures the upgrade and the wrapped connection.
type Option func(*config)

func WithReadBuffer(size int) Option {
	return func(c *config) {
		c.upgrader.ReadBufferSize = size
	}
}

func WithWriteBuffer(size int) Option {
	return func(c *config) {
		c.upgrader.WriteBufferSize = size
	}
}

func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.upgrader.HandshakeTimeout = timeout
	}
}

func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(c *config) {
		c.upgrader.CheckOrigin = fn
	}
}

func WithAllowAnyOrigin() Option {
	return func(c *config) {
		c.upgrader.CheckOrigin = func(*http.Request) bool {
			return true
		}
	}
}

func WithSubprotocols(protocols ...string) Option {
	return func(c *config) {
		c.upgrader.Subprotocols = protocols
	}
}

func WithUpgradeHeaders(header http.Header) Option {
	return func(c *config) {
		c.responseHeader = header
	}
}

// WithReadLimit caps a single inbound message. Larger messages end the
// session with status 1009.
func WithReadLimit(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.readLimit = n
		}
	}
}

// WithErrorHandler receives upgrade failures and session errors.
func WithErrorHandler(fn func(context.Context, error)) Option {
	return func(c *config) {
		if fn != nil {
			c.onError = fn
		}
	}
}
