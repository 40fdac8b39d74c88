// Package redis connects to Redis and relays socket broadcasts between
// processes over Redis pub/sub.
//
// # Connecting
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Connect parses REDIS_URL (redis:// or rediss://), then pings with
// exponential backoff: RetryAttempts tries starting RetryInterval apart,
// everything bounded by ConnectTimeout.
//
// # Relaying Broadcasts
//
// A registry only reaches the connections held by its own process. When the
// service runs as several replicas, publish through a Bridge instead of
// calling Broadcast directly:
//
//	bridge := redis.NewBridge(client, reg, socket.ParseIntKey,
//		redis.WithChannel(cfg.Channel),
//		redis.WithLogger(log),
//	)
//	g.Go(bridge.Run(ctx))
//
//	// in a request handler
//	err := bridge.Publish(r.Context(), 42, "hello")
//
// Every replica's bridge receives the envelope, including the publisher's,
// and calls Broadcast on its local registry. Messages that cannot be decoded
// are dropped and counted in Stats.
//
// # Health Checking
//
// Healthcheck(client) pings Redis. Bridge.Healthcheck also fails while the
// bridge is not subscribed.
//
// # Errors
//
//   - ErrEmptyConnectionURL, ErrFailedToParseRedisConnString: bad configuration
//   - ErrRedisNotReady: no successful ping within the retry budget
//   - ErrSubscribeFailed, ErrPublishFailed: pub/sub failures
//   - ErrHealthcheckFailed: returned by both health checks
package redis
