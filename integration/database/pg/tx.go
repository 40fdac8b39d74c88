package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type txKey struct{}

// Beginner starts transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx attaches tx to ctx so Notify sends through it and the broadcast is
// only delivered once the transaction commits. A nil tx leaves ctx unchanged.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction attached by WithTx.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// InTx runs fn with a transaction attached to its context and commits when fn
// succeeds. Notifications sent by fn reach listeners only after the commit.
// When ctx already carries a transaction fn joins it instead.
//
//	err := pg.InTx(ctx, pool, func(ctx context.Context) error {
//		tx, _ := pg.TxFromContext(ctx)
//		if _, err := tx.Exec(ctx, "UPDATE rooms SET topic = $1 WHERE id = $2", topic, roomID); err != nil {
//			return err
//		}
//		return pg.Notify(ctx, pool, channel, roomID, "topic changed")
//	})
func InTx(ctx context.Context, db Beginner, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrBeginTx, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rbErr)
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitTx, err)
	}
	return nil
}
