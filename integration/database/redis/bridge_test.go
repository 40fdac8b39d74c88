package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sockethub/core/socket"
	"github.com/dmitrymomot/sockethub/integration/database/redis"
)

type chanBroadcaster chan string

func (c chanBroadcaster) Broadcast(_ context.Context, key string, message string) {
	c <- key + ":" + message
}

// TestBridge_RoundTrip needs a live server; set REDIS_URL to run it.
func TestBridge_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: url, RetryAttempts: 1})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, redis.Healthcheck(client)(ctx))

	got := make(chanBroadcaster, 1)
	bridge := redis.NewBridge[string](client, got, socket.ParseStringKey,
		redis.WithChannel("sockethub-test-"+uuid.NewString()))

	runCtx, stop := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(bridge.Run(gctx))

	require.Eventually(t, func() bool {
		return bridge.Healthcheck(ctx) == nil
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, bridge.Publish(ctx, "lobby", "hello"))

	select {
	case msg := <-got:
		assert.Equal(t, "lobby:hello", msg)
	case <-ctx.Done():
		t.Fatal("relayed message not delivered")
	}

	stop()
	require.NoError(t, g.Wait())
	assert.Equal(t, int64(1), bridge.Stats().Published)
}
