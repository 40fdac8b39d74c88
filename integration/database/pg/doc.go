// Package pg connects to PostgreSQL with pgx and relays socket broadcasts
// through LISTEN/NOTIFY.
//
// Any SQL client, trigger or stored procedure can reach websocket subscribers
// by notifying the configured channel with an envelope payload:
//
//	SELECT pg_notify('sockethub', '{"key": 42, "message": "hello"}');
//
// From Go, Notify builds the envelope:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	err = pg.Notify(ctx, pool, cfg.NotifyChannel, 42, "hello")
//
// A Listener in every process delivers the notifications to its registry:
//
//	listener := pg.NewListener(pool, reg, socket.ParseIntKey,
//		pg.WithChannel(cfg.NotifyChannel),
//		pg.WithLogger(log),
//	)
//	g.Go(listener.Run(ctx))
//
// # Transactions
//
// Postgres delivers notifications on commit. InTx attaches a transaction to
// the context, and Notify called with that context runs inside it:
//
//	err := pg.InTx(ctx, pool, func(ctx context.Context) error {
//		return pg.Notify(ctx, pool, "sockethub", 42, "order shipped")
//	})
//
// WithTx does the same for a transaction the caller manages.
//
// Payloads of MaxPayloadSize bytes or more are rejected with
// ErrPayloadTooLarge before reaching the server.
package pg
