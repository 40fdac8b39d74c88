package socket

import (
	"log/slog"
	"time"
)

const (
	// DefaultSendTimeout bounds a single send during broadcast.
	DefaultSendTimeout = 10 * time.Second

	// DefaultCloseTimeout bounds one graceful close handshake.
	DefaultCloseTimeout = 5 * time.Second

	// DefaultShutdownTimeout is the drain-all budget used by Run.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMaxConcurrentSends caps the goroutines one broadcast uses.
	DefaultMaxConcurrentSends = 64

	// ShutdownReason is sent to every peer closed by drain-all.
	ShutdownReason = "server shutting down"
)

// Option configures a Registry.
type Option func(*options)

type options struct {
	logger             *slog.Logger
	sendTimeout        time.Duration
	closeTimeout       time.Duration
	shutdownTimeout    time.Duration
	maxConcurrentSends int64
	newID              func() string
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSendTimeout bounds each send during a broadcast. A peer that does not
// accept the message in time is removed and closed.
func WithSendTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sendTimeout = d
		}
	}
}

// WithCloseTimeout bounds a single graceful close.
func WithCloseTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.closeTimeout = d
		}
	}
}

// WithShutdownTimeout sets the drain-all budget Run uses once its context ends.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithMaxConcurrentSends caps how many sends one broadcast runs at once.
func WithMaxConcurrentSends(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConcurrentSends = int64(n)
		}
	}
}

// WithIDGenerator replaces the connection id generator. Ids must be unique
// for the lifetime of the registry; a colliding id is regenerated.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}
