// Package server wraps http.Server with graceful shutdown, production
// timeouts and an errgroup-friendly lifecycle.
//
// # Basic Usage
//
//	srv := server.New(":8080",
//		server.WithLogger(log),
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithShutdownHook(func(ctx context.Context) {
//			reg.DrainAll(5 * time.Second)
//		}),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	if err := g.Wait(); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// # Configuration
//
// Config reads SERVER_* environment variables:
//
//	var cfg server.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// # Shutdown
//
// Stop calls http.Server.Shutdown, which waits for in-flight requests but
// ignores hijacked connections. Websocket connections are therefore closed
// by shutdown hooks, which run after Shutdown returns and receive the
// remaining shutdown context.
package server
