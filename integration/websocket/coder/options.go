package coder

import (
	"context"

	"github.com/coder/websocket"
)

type config struct {
	accept    *websocket.AcceptOptions
	readLimit int64
	onError   func(context.Context, error)
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		accept:    &websocket.AcceptOptions{},
		readLimit: DefaultReadLimit,
		onError:   func(context.Context, error) {},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures the accept and the wrapped connection.
type Option func(*config)

// WithAcceptOptions replaces the options passed to websocket.Accept.
func WithAcceptOptions(opts *websocket.AcceptOptions) Option {
	return func(c *config) {
		if opts != nil {
			c.accept = opts
		}
	}
}

// WithOriginPatterns allows cross-origin requests from hosts matching patterns.
func WithOriginPatterns(patterns ...string) Option {
	return func(c *config) {
		c.accept.OriginPatterns = patterns
	}
}

// WithAllowAnyOrigin disables the origin check.
func WithAllowAnyOrigin() Option {
	return func(c *config) {
		c.accept.InsecureSkipVerify = true
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

// WithErrorHandler receives accept failures and session errors.
func WithErrorHandler(fn func(context.Context, error)) Option {
	return func(c *config) {
		if fn != nil {
			c.onError = fn
		}
	}
}
