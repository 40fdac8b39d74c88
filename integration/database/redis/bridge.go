package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sockethub/core/logger"
	"github.com/dmitrymomot/sockethub/core/socket"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "sockethub"

// Bridge relays broadcasts between processes over Redis pub/sub. Publish
// sends an envelope to the channel; every running bridge, including the
// publisher's own, delivers it to its local registry.
type Bridge[K comparable] struct {
	client  redis.UniversalClient
	target  socket.Broadcaster[K]
	parse   socket.KeyParser[K]
	channel string

	logger          *slog.Logger
	shutdownTimeout time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool

	published atomic.Int64
	received  atomic.Int64
	dropped   atomic.Int64
}

// BridgeStats provides observability counters.
type BridgeStats struct {
	Published int64
	Received  int64
	Dropped   int64
	IsRunning bool
}

// BridgeOption configures a Bridge.
type BridgeOption func(*bridgeOptions)

type bridgeOptions struct {
	channel         string
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// WithChannel sets the pub/sub channel. Defaults to DefaultChannel.
func WithChannel(channel string) BridgeOption {
	return func(o *bridgeOptions) {
		if channel != "" {
			o.channel = channel
		}
	}
}

// WithLogger sets the bridge logger.
func WithLogger(l *slog.Logger) BridgeOption {
	return func(o *bridgeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for the receive loop.
func WithShutdownTimeout(d time.Duration) BridgeOption {
	return func(o *bridgeOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// NewBridge creates a bridge delivering to target. parse turns relayed keys
// back into K.
func NewBridge[K comparable](client redis.UniversalClient, target socket.Broadcaster[K], parse socket.KeyParser[K], opts ...BridgeOption) *Bridge[K] {
	o := bridgeOptions{
		channel:         DefaultChannel,
		logger:          logger.Discard(),
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Bridge[K]{
		client:          client,
		target:          target,
		parse:           parse,
		channel:         o.channel,
		logger:          o.logger.With(logger.Component("redis_bridge"), logger.Channel(o.channel)),
		shutdownTimeout: o.shutdownTimeout,
	}
}

// Publish relays message to every process subscribed to the channel.
func (b *Bridge[K]) Publish(ctx context.Context, key K, message string) error {
	if !utf8.ValidString(message) {
		return socket.ErrNotTextMessage
	}

	data, err := socket.EncodeEnvelope(key, message)
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	b.published.Add(1)
	return nil
}

// Start subscribes and delivers messages until ctx is cancelled or Stop is
// called. It blocks; use Run for the errgroup pattern.
func (b *Bridge[K]) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.cancel != nil {
		b.mu.Unlock()
		return ErrBridgeAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	b.cancel, b.done = cancel, done
	b.mu.Unlock()

	defer func() {
		cancel()
		b.mu.Lock()
		if b.done == done {
			b.cancel = nil
		}
		b.mu.Unlock()
		close(done)
	}()

	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	b.running.Store(true)
	defer b.running.Store(false)
	b.logger.InfoContext(ctx, "redis bridge started")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("redis bridge stopping")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				b.logger.Info("redis subscription closed")
				return nil
			}
			b.deliver(ctx, []byte(msg.Payload))
		}
	}
}

// Stop cancels the receive loop and waits for it to exit.
func (b *Bridge[K]) Stop() error {
	b.mu.Lock()
	if b.cancel == nil {
		b.mu.Unlock()
		return ErrBridgeNotStarted
	}
	cancel, done := b.cancel, b.done
	b.cancel = nil
	b.mu.Unlock()

	cancel()

	timer := time.NewTimer(b.shutdownTimeout)
	defer timer.Stop()

	select {
	case <-done:
		b.logger.Info("redis bridge stopped")
		return nil
	case <-timer.C:
		return fmt.Errorf("redis bridge: shutdown timeout exceeded after %s", b.shutdownTimeout)
	}
}

// Run provides errgroup compatibility.
func (b *Bridge[K]) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- b.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = b.Stop()
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

// Stats returns current bridge counters.
func (b *Bridge[K]) Stats() BridgeStats {
	return BridgeStats{
		Published: b.published.Load(),
		Received:  b.received.Load(),
		Dropped:   b.dropped.Load(),
		IsRunning: b.running.Load(),
	}
}

// Healthcheck fails when the bridge is not subscribed or Redis does not
// answer PING.
func (b *Bridge[K]) Healthcheck(ctx context.Context) error {
	if !b.running.Load() {
		return errors.Join(ErrHealthcheckFailed, ErrBridgeNotStarted)
	}
	return Healthcheck(b.client)(ctx)
}

func (b *Bridge[K]) deliver(ctx context.Context, payload []byte) {
	key, message, err := socket.DecodeEnvelope(payload, b.parse)
	if err != nil {
		b.dropped.Add(1)
		b.logger.WarnContext(ctx, "redis bridge dropped message", logger.Error(err))
		return
	}

	b.received.Add(1)
	b.target.Broadcast(ctx, key, message)
}
