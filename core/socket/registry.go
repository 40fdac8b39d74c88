package socket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/sockethub/core/logger"
	"github.com/dmitrymomot/sockethub/pkg/async"
)

// maxIDAttempts bounds id regeneration on collision.
const maxIDAttempts = 8

var errTopicRetired = errors.New("socket: topic retired")

// Broadcaster delivers a text message to every subscriber of a key.
// Registry implements it; bridges accept it so they can be tested alone.
type Broadcaster[K comparable] interface {
	Broadcast(ctx context.Context, key K, message string)
}

// Registry maps topic keys to the live connections subscribed to them.
//
// Both levels of the map are sync.Map instances, so registrations and
// broadcasts on different keys never contend on a shared lock. Every removal
// goes through LoadAndDelete: when the session, a broadcast and drain-all race
// to drop the same connection, exactly one of them wins. A topic is dropped as
// soon as its last connection leaves.
type Registry[K comparable] struct {
	topics sync.Map // K -> *topic

	opts   options
	logger *slog.Logger

	closed    atomic.Bool
	drainOnce sync.Once
	drained   chan struct{}

	stats counters
}

// topic is the inner map of one key.
//
// mu serializes inserts against retiring an empty topic; removals and
// broadcasts never take it. A retired topic accepts no inserts.
type topic struct {
	conns sync.Map // connection id -> *handle

	mu      sync.Mutex
	retired bool
}

type entry struct {
	id string
	h  *handle
}

func (t *topic) snapshot() []entry {
	var entries []entry
	t.conns.Range(func(k, v any) bool {
		h, _ := v.(*handle)
		entries = append(entries, entry{id: k.(string), h: h})
		return true
	})
	return entries
}

func (t *topic) empty() bool {
	empty := true
	t.conns.Range(func(_, _ any) bool {
		empty = false
		return false
	})
	return empty
}

// New creates an empty registry.
func New[K comparable](opts ...Option) *Registry[K] {
	o := options{
		logger:             logger.Discard(),
		sendTimeout:        DefaultSendTimeout,
		closeTimeout:       DefaultCloseTimeout,
		shutdownTimeout:    DefaultShutdownTimeout,
		maxConcurrentSends: DefaultMaxConcurrentSends,
		newID:              uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Registry[K]{
		opts:    o,
		logger:  o.logger.With(logger.Component("socket")),
		drained: make(chan struct{}),
	}
}

// Registration is returned by Register. It identifies one connection and lets
// its owner remove it again.
type Registration[K comparable] struct {
	registry *Registry[K]
	topic    *topic
	key      K
	handle   *handle
}

// ID returns the connection id.
func (g *Registration[K]) ID() string { return g.handle.id }

// Key returns the topic key the connection is subscribed to.
func (g *Registration[K]) Key() K { return g.key }

// State returns the connection's lifecycle state.
func (g *Registration[K]) State() State { return g.handle.State() }

// Closed is closed once the connection has been released.
func (g *Registration[K]) Closed() <-chan struct{} { return g.handle.closed }

// Deregister removes the connection from the registry without closing it.
// Safe to call any number of times.
func (g *Registration[K]) Deregister() {
	g.registry.unsubscribe(g.key, g.topic, g.handle.id)
}

// Close deregisters the connection and closes it with the given status.
// Only the first close of a connection has any effect.
func (g *Registration[K]) Close(code CloseCode, reason string) {
	g.Deregister()
	g.registry.closeHandle(g.key, g.handle, code, reason)
}

// Register subscribes an established connection to key and makes it visible
// to broadcasts immediately.
//
// It fails with ErrNilConn when conn is nil and with ErrRegistryClosed once
// drain-all has started; in the latter case conn is closed before returning.
func (r *Registry[K]) Register(key K, conn Conn) (*Registration[K], error) {
	if conn == nil {
		return nil, ErrNilConn
	}
	if r.closed.Load() {
		r.closeHandle(key, newHandle("", conn), CloseGoingAway, ShutdownReason)
		return nil, ErrRegistryClosed
	}

	var (
		t   *topic
		h   *handle
		err error
	)
	for {
		t = r.topicFor(key)
		h, err = r.insert(t, conn)
		if !errors.Is(err, errTopicRetired) {
			break
		}
	}
	if err != nil {
		r.closeHandle(key, newHandle("", conn), CloseInternalServerErr, "")
		return nil, err
	}

	// Drain-all may have swept this topic between topicFor and insert.
	if r.closed.Load() {
		r.remove(t, h.id)
		r.topics.CompareAndDelete(key, t)
		r.closeHandle(key, h, CloseGoingAway, ShutdownReason)
		return nil, ErrRegistryClosed
	}

	r.logger.Debug("socket registered", logger.Topic(key), logger.ConnID(h.id))

	return &Registration[K]{registry: r, topic: t, key: key, handle: h}, nil
}

// Deregister removes connection id from key. It does nothing when the
// connection is already gone.
func (r *Registry[K]) Deregister(key K, id string) {
	v, ok := r.topics.Load(key)
	if !ok {
		return
	}
	r.unsubscribe(key, v.(*topic), id)
}

// Broadcast sends message to every connection currently subscribed to key.
//
// Broadcasting to a key without subscribers is a no-op. The recipients are a
// snapshot taken at the start of the call: connections registering meanwhile
// may or may not receive the message. Sends run concurrently, each bounded by
// the send timeout; a connection whose send fails is removed and closed.
// Broadcast returns once every send has finished or timed out.
func (r *Registry[K]) Broadcast(ctx context.Context, key K, message string) {
	if !utf8.ValidString(message) {
		r.logger.WarnContext(ctx, "broadcast dropped",
			logger.Topic(key), logger.Error(ErrNotTextMessage))
		return
	}

	v, ok := r.topics.Load(key)
	if !ok {
		return
	}
	t := v.(*topic)

	entries := t.snapshot()
	if len(entries) == 0 {
		return
	}
	r.stats.broadcasts.Add(1)

	sem := semaphore.NewWeighted(r.opts.maxConcurrentSends)
	var wg sync.WaitGroup

	for _, e := range entries {
		if e.h == nil {
			r.unsubscribe(key, t, e.id)
			continue
		}
		if !e.h.open() {
			r.prune(key, t, e, ErrConnClosed)
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			// The caller gave up; the remaining peers did nothing wrong.
			break
		}
		wg.Add(1)
		go func(e entry) {
			defer wg.Done()
			defer sem.Release(1)
			r.deliver(ctx, key, t, e, message)
		}(e)
	}

	wg.Wait()
}

func (r *Registry[K]) deliver(ctx context.Context, key K, t *topic, e entry, message string) {
	sendCtx, cancel := context.WithTimeout(ctx, r.opts.sendTimeout)
	defer cancel()

	err := e.h.send(sendCtx, message)
	if err == nil {
		r.stats.messagesSent.Add(1)
		return
	}

	r.stats.sendFailures.Add(1)
	if ctx.Err() != nil {
		return
	}
	r.prune(key, t, e, err)
}

// prune drops a dead connection found during a broadcast.
func (r *Registry[K]) prune(key K, t *topic, e entry, cause error) {
	if r.unsubscribe(key, t, e.id) {
		r.stats.pruned.Add(1)
		r.logger.Debug("socket pruned",
			logger.Topic(key), logger.ConnID(e.id), logger.Error(cause))
	}
	r.closeHandle(key, e.h, CloseGoingAway, "")
}

// DrainAll closes every connection and empties the registry. Only the first
// call does anything; later calls return immediately.
//
// Closes run concurrently. DrainAll waits for them up to timeout and then
// abandons the rest; an abandoned close still releases its transport once its
// own close attempt gives up. Registrations arriving after DrainAll started
// are refused with ErrRegistryClosed.
func (r *Registry[K]) DrainAll(timeout time.Duration) {
	r.drainOnce.Do(func() {
		defer close(r.drained)
		r.drain(timeout)
	})
}

func (r *Registry[K]) drain(timeout time.Duration) {
	start := time.Now()
	r.closed.Store(true)

	deadline, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var futures []*async.ExecFuture
	r.topics.Range(func(k, v any) bool {
		t := v.(*topic)
		r.topics.CompareAndDelete(k, t)

		t.conns.Range(func(id, hv any) bool {
			h, _ := hv.(*handle)
			if !r.remove(t, id.(string)) || h == nil {
				return true
			}
			key := k.(K)
			futures = append(futures, async.Exec(context.Background(), h, func(_ context.Context, h *handle) error {
				ctx, cancel := context.WithTimeout(deadline, r.opts.closeTimeout)
				defer cancel()
				_, err := h.close(ctx, CloseGoingAway, ShutdownReason)
				if err != nil {
					r.logger.Debug("socket close failed during drain",
						logger.Topic(key), logger.ConnID(h.id), logger.Error(err))
				}
				return nil
			}))
			return true
		})
		return true
	})

	completed, err := async.AwaitAll(timeout, futures...)
	if errors.Is(err, async.ErrTimeout) {
		r.logger.Warn("socket drain timed out, abandoning pending closes",
			logger.Count("closed", completed),
			logger.Count("pending", len(futures)-completed),
			logger.Timeout(timeout))
		return
	}

	r.logger.Info("socket registry drained",
		logger.Count("closed", completed),
		logger.Elapsed(start))
}

// Drained is closed once DrainAll has finished waiting.
func (r *Registry[K]) Drained() <-chan struct{} {
	return r.drained
}

// Run returns an errgroup-compatible function that blocks until ctx is done
// and then drains the registry with the configured shutdown timeout.
func (r *Registry[K]) Run(ctx context.Context) func() error {
	return func() error {
		<-ctx.Done()
		r.DrainAll(r.opts.shutdownTimeout)
		return nil
	}
}

// Stats returns current counters.
func (r *Registry[K]) Stats() Stats {
	topics := 0
	r.topics.Range(func(_, _ any) bool {
		topics++
		return true
	})

	return Stats{
		Registered:   r.stats.registered.Load(),
		Active:       r.stats.active.Load(),
		Topics:       topics,
		Broadcasts:   r.stats.broadcasts.Load(),
		MessagesSent: r.stats.messagesSent.Load(),
		SendFailures: r.stats.sendFailures.Load(),
		Pruned:       r.stats.pruned.Load(),
		Discarded:    r.stats.discarded.Load(),
		Draining:     r.closed.Load(),
	}
}

// Healthcheck fails once the registry has started draining.
func (r *Registry[K]) Healthcheck(ctx context.Context) error {
	if r.closed.Load() {
		return errors.Join(ErrHealthcheckFailed, ErrRegistryClosed)
	}
	return nil
}

func (r *Registry[K]) topicFor(key K) *topic {
	if v, ok := r.topics.Load(key); ok {
		return v.(*topic)
	}
	v, _ := r.topics.LoadOrStore(key, &topic{})
	return v.(*topic)
}

// insert fails with errTopicRetired when t was dropped after the caller
// looked it up; the caller retries with a fresh topic.
func (r *Registry[K]) insert(t *topic, conn Conn) (*handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.retired {
		return nil, errTopicRetired
	}

	for range maxIDAttempts {
		h := newHandle(r.opts.newID(), conn)
		h.markOpen()
		if _, loaded := t.conns.LoadOrStore(h.id, h); loaded {
			continue
		}
		r.stats.registered.Add(1)
		r.stats.active.Add(1)
		return h, nil
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrIDCollision, maxIDAttempts)
}

// remove reports whether this call removed id from t.
func (r *Registry[K]) remove(t *topic, id string) bool {
	if _, ok := t.conns.LoadAndDelete(id); !ok {
		return false
	}
	r.stats.active.Add(-1)
	return true
}

// unsubscribe removes id from t and drops t once it is empty.
func (r *Registry[K]) unsubscribe(key K, t *topic, id string) bool {
	if !r.remove(t, id) {
		return false
	}
	r.dropIfEmpty(key, t)
	return true
}

func (r *Registry[K]) dropIfEmpty(key K, t *topic) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.retired || !t.empty() {
		return
	}
	t.retired = true
	r.topics.CompareAndDelete(key, t)
}

func (r *Registry[K]) closeHandle(key K, h *handle, code CloseCode, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.closeTimeout)
	defer cancel()

	closed, err := h.close(ctx, code, reason)
	if closed && err != nil {
		r.logger.Debug("socket close failed",
			logger.Topic(key), logger.ConnID(h.id), logger.Error(err))
	}
}
