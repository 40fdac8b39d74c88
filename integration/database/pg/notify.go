package pg

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sockethub/core/socket"
)

// MaxPayloadSize is the exclusive upper bound Postgres puts on a NOTIFY
// payload in its default configuration.
const MaxPayloadSize = 8000

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Notify relays a broadcast through pg_notify on channel. When ctx carries a
// transaction (see WithTx) the notification is sent inside it.
func Notify[K comparable](ctx context.Context, db Execer, channel string, key K, message string) error {
	if !utf8.ValidString(message) {
		return socket.ErrNotTextMessage
	}

	data, err := socket.EncodeEnvelope(key, message)
	if err != nil {
		return err
	}
	if len(data) >= MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	if tx, ok := TxFromContext(ctx); ok {
		db = tx
	}
	if _, err := db.Exec(ctx, "SELECT pg_notify($1, $2)", channel, string(data)); err != nil {
		return errors.Join(ErrNotifyFailed, err)
	}
	return nil
}
