package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/sockethub/core/logger"
	"github.com/dmitrymomot/sockethub/core/socket"
)

// DefaultChannel is the notification channel used when none is configured.
const DefaultChannel = "sockethub"

// Listener holds one pooled connection in LISTEN mode and broadcasts every
// notification on its channel to a local registry. A lost connection is
// re-acquired after RetryInterval.
type Listener[K comparable] struct {
	pool    *pgxpool.Pool
	target  socket.Broadcaster[K]
	parse   socket.KeyParser[K]
	channel string

	logger          *slog.Logger
	retryInterval   time.Duration
	shutdownTimeout time.Duration

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	listening atomic.Bool

	received  atomic.Int64
	dropped   atomic.Int64
	reconnect atomic.Int64
}

// ListenerStats provides observability counters.
type ListenerStats struct {
	Received    int64
	Dropped     int64
	Reconnects  int64
	IsListening bool
}

// ListenerOption configures a Listener.
type ListenerOption func(*listenerOptions)

type listenerOptions struct {
	channel         string
	logger          *slog.Logger
	retryInterval   time.Duration
	shutdownTimeout time.Duration
}

// WithChannel sets the LISTEN channel. Defaults to DefaultChannel.
func WithChannel(channel string) ListenerOption {
	return func(o *listenerOptions) {
		if channel != "" {
			o.channel = channel
		}
	}
}

// WithLogger sets the listener logger.
func WithLogger(l *slog.Logger) ListenerOption {
	return func(o *listenerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRetryInterval sets the pause before re-acquiring a lost connection.
func WithRetryInterval(d time.Duration) ListenerOption {
	return func(o *listenerOptions) {
		if d > 0 {
			o.retryInterval = d
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for the listen loop.
func WithShutdownTimeout(d time.Duration) ListenerOption {
	return func(o *listenerOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// NewListener creates a listener delivering to target.
func NewListener[K comparable](pool *pgxpool.Pool, target socket.Broadcaster[K], parse socket.KeyParser[K], opts ...ListenerOption) *Listener[K] {
	o := listenerOptions{
		channel:         DefaultChannel,
		logger:          logger.Discard(),
		retryInterval:   5 * time.Second,
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Listener[K]{
		pool:            pool,
		target:          target,
		parse:           parse,
		channel:         o.channel,
		logger:          o.logger.With(logger.Component("pg_listener"), logger.Channel(o.channel)),
		retryInterval:   o.retryInterval,
		shutdownTimeout: o.shutdownTimeout,
	}
}

// Start listens until ctx is cancelled or Stop is called. It blocks; use Run
// for the errgroup pattern.
func (l *Listener[K]) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return ErrListenerAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel, l.done = cancel, done
	l.mu.Unlock()

	defer func() {
		cancel()
		l.mu.Lock()
		if l.done == done {
			l.cancel = nil
		}
		l.mu.Unlock()
		close(done)
	}()

	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.logger.Info("pg listener stopping")
			return ctx.Err()
		}

		l.reconnect.Add(1)
		l.logger.WarnContext(ctx, "pg listener lost connection, retrying",
			logger.Error(err), logger.Duration(l.retryInterval))

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Listener[K]) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrListenFailed, err)
	}
	defer func() {
		if !conn.Conn().IsClosed() {
			uctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_, _ = conn.Exec(uctx, "UNLISTEN *")
			cancel()
		}
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return errors.Join(ErrListenFailed, err)
	}

	l.listening.Store(true)
	defer l.listening.Store(false)
	l.logger.InfoContext(ctx, "pg listener started")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("pg listener: wait: %w", err)
		}
		l.deliver(ctx, n.Payload)
	}
}

// Stop cancels listening and waits for Start to return.
func (l *Listener[K]) Stop() error {
	l.mu.Lock()
	if l.cancel == nil {
		l.mu.Unlock()
		return ErrListenerNotStarted
	}
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.mu.Unlock()

	cancel()

	timer := time.NewTimer(l.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-done:
		l.logger.Info("pg listener stopped")
		return nil
	case <-timer.C:
		return fmt.Errorf("pg listener: shutdown timeout exceeded after %s", l.shutdownTimeout)
	}
}

// Run provides errgroup compatibility.
func (l *Listener[K]) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- l.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = l.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Stats returns current counters.
func (l *Listener[K]) Stats() ListenerStats {
	return ListenerStats{
		Received:    l.received.Load(),
		Dropped:     l.dropped.Load(),
		Reconnects:  l.reconnect.Load(),
		IsListening: l.listening.Load(),
	}
}

// Healthcheck fails while no connection is in LISTEN mode.
func (l *Listener[K]) Healthcheck(ctx context.Context) error {
	if !l.listening.Load() {
		return errors.Join(ErrHealthcheckFailed, ErrListenerNotStarted)
	}
	return nil
}

func (l *Listener[K]) deliver(ctx context.Context, payload string) {
	key, message, err := socket.DecodeEnvelope([]byte(payload), l.parse)
	if err != nil {
		l.dropped.Add(1)
		l.logger.WarnContext(ctx, "pg listener dropped notification", logger.Error(err))
		return
	}

	l.received.Add(1)
	l.target.Broadcast(ctx, key, message)
}
