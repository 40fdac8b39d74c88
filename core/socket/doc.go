// Package socket keeps a keyed registry of live websocket connections and
// broadcasts text messages to every connection subscribed to a key.
//
// Connections come from any websocket library through the Conn interface;
// adapters for gorilla/websocket and coder/websocket live under
// integration/websocket. The registry itself never touches the network
// directly, which makes it easy to drive from tests with a fake Conn.
//
// # Key Features
//
//   - Any comparable type as topic key (integer ids, string ids, ...)
//   - Lock-free two-level map: keys never contend with each other
//   - Concurrent fan-out with a per-send timeout; stalled peers are pruned
//   - Exactly-once close and release, even when sessions, broadcasts and
//     drain-all race on the same connection
//   - Bounded drain-all for graceful shutdown
//
// # Basic Usage
//
//	reg := socket.New[int](
//		socket.WithLogger(log),
//		socket.WithSendTimeout(5*time.Second),
//	)
//
//	// In the websocket handler, after the upgrade:
//	err := reg.Serve(r.Context(), roomID, gorilla.Wrap(conn))
//
//	// Anywhere else:
//	reg.Broadcast(ctx, roomID, "hello")
//
// Serve blocks for the lifetime of the connection. It registers the
// connection, discards inbound data frames, answers the peer's close frame
// with the same status, and always deregisters and releases the transport
// on the way out.
//
// For callers that run their own read loop, Register and Registration give
// direct control:
//
//	sub, err := reg.Register(roomID, conn)
//	if err != nil {
//		return err
//	}
//	defer sub.Close(socket.CloseNormalClosure, "")
//
// # Broadcast Semantics
//
// Broadcast takes a snapshot of the key's subscribers and sends to each of
// them concurrently, capped by WithMaxConcurrentSends. A send that fails or
// exceeds the send timeout removes the connection from the registry and
// closes it. Sends that fail because the caller's context ended do not prune.
// Broadcasting to a key nobody subscribed to is a no-op, and a message that
// is not valid UTF-8 is dropped with a warning.
//
// # Shutdown
//
// DrainAll closes every connection with status 1001 and the reason
// "server shutting down", waits up to the given timeout, and refuses all
// later registrations with ErrRegistryClosed. Run wraps it for errgroup:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	g.Go(reg.Run(ctx))
//
// # Configuration
//
// Config reads SOCKET_* environment variables through core/config:
//
//	var cfg socket.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	reg := socket.NewFromConfig[string](cfg, socket.WithLogger(log))
//
// # Relaying Between Processes
//
// EncodeEnvelope and DecodeEnvelope define the JSON form used by the Redis
// and PostgreSQL bridges to forward broadcasts to every process:
//
//	{"key": 42, "message": "hello"}
package socket
