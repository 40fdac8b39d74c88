package pg

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sockethub/core/socket"
)

type recorder struct {
	mu       sync.Mutex
	messages map[string][]string
}

func (r *recorder) Broadcast(_ context.Context, key string, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.messages == nil {
		r.messages = map[string][]string{}
	}
	r.messages[key] = append(r.messages[key], message)
}

func TestListener_Deliver(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	l := NewListener[string](nil, rec, socket.ParseStringKey)

	l.deliver(context.Background(), `{"key":"lobby","message":"hi"}`)
	l.deliver(context.Background(), `{"key":"","message":"empty key"}`)
	l.deliver(context.Background(), `not json`)

	assert.Equal(t, map[string][]string{"lobby": {"hi"}}, rec.messages)

	stats := l.Stats()
	assert.Equal(t, int64(1), stats.Received)
	assert.Equal(t, int64(2), stats.Dropped)
	assert.False(t, stats.IsListening)
}

func TestListener_NotStarted(t *testing.T) {
	t.Parallel()

	l := NewListener[string](nil, &recorder{}, socket.ParseStringKey, WithChannel("rooms"))
	assert.Equal(t, "rooms", l.channel)

	require.ErrorIs(t, l.Stop(), ErrListenerNotStarted)
	require.ErrorIs(t, l.Healthcheck(context.Background()), ErrHealthcheckFailed)
}
