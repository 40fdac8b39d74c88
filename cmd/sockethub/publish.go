package main

import (
	"context"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/sockethub/core/socket"
	"github.com/dmitrymomot/sockethub/integration/database/pg"
)

// publisher delivers a message to the subscribers of a key, possibly by way
// of another process. redis.Bridge implements it directly.
type publisher[K comparable] interface {
	Publish(ctx context.Context, key K, message string) error
}

// localPublisher broadcasts within this process only.
type localPublisher[K comparable] struct {
	registry *socket.Registry[K]
}

func (p localPublisher[K]) Publish(ctx context.Context, key K, message string) error {
	if !utf8.ValidString(message) {
		return socket.ErrNotTextMessage
	}
	p.registry.Broadcast(ctx, key, message)
	return nil
}

// notifyPublisher relays through Postgres; the listener of every process
// subscribed to the channel, this one included, performs the broadcast.
type notifyPublisher[K comparable] struct {
	pool    *pgxpool.Pool
	channel string
}

func (p notifyPublisher[K]) Publish(ctx context.Context, key K, message string) error {
	return pg.Notify(ctx, p.pool, p.channel, key, message)
}

// hub bundles what the routes of one key type need.
type hub[K comparable] struct {
	registry  *socket.Registry[K]
	publisher publisher[K]
	parse     socket.KeyParser[K]
}

func newHub[K comparable](registry *socket.Registry[K], parse socket.KeyParser[K]) hub[K] {
	return hub[K]{
		registry:  registry,
		publisher: localPublisher[K]{registry: registry},
		parse:     parse,
	}
}
