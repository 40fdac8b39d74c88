// Command sockethub serves keyed websocket subscriptions and publishes
// messages to them over HTTP.
//
// Routes:
//
//	GET      /ws/{id}              subscribe to an integer key (gorilla)
//	GET      /ws/string/{id}       subscribe to a string key (gorilla)
//	GET      /ws/coder/{id}        subscribe to an integer key (coder)
//	GET      /ws/coder/string/{id} subscribe to a string key (coder)
//	GET|POST /post/{id}            publish to an integer key
//	GET|POST /post/string/{id}     publish to a string key
//	GET      /stats                registry counters
//	GET      /health/live, /health/ready
//
// With REDIS_URL set, publishes go through Redis and every instance sharing
// the channel delivers them. With PG_CONN_URL set, NOTIFY payloads on the
// configured channel are delivered as well, and publishes go through Postgres
// when Redis is not configured.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/sockethub/core/config"
	"github.com/dmitrymomot/sockethub/core/logger"
	"github.com/dmitrymomot/sockethub/core/server"
	"github.com/dmitrymomot/sockethub/core/socket"
	"github.com/dmitrymomot/sockethub/integration/database/pg"
	"github.com/dmitrymomot/sockethub/integration/database/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfg     appConfig
		srvCfg  server.Config
		sockCfg socket.Config
	)
	if err := errors.Join(config.Load(&cfg), config.Load(&srvCfg), config.Load(&sockCfg)); err != nil {
		return err
	}

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ints := newHub[int](socket.NewFromConfig[int](sockCfg,
		socket.WithLogger(log.With(logger.Key("registry", "int")))), socket.ParseIntKey)
	strs := newHub[string](socket.NewFromConfig[string](sockCfg,
		socket.WithLogger(log.With(logger.Key("registry", "string")))), socket.ParseStringKey)

	checks := []func(context.Context) error{ints.registry.Healthcheck, strs.registry.Healthcheck}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.RedisURL != "" {
		relayChecks, closeFn, err := startRedis(ctx, g, log, &ints, &strs)
		if err != nil {
			return err
		}
		defer closeFn()
		checks = append(checks, relayChecks...)
	}

	if cfg.PGConnURL != "" {
		relayChecks, closeFn, err := startPostgres(ctx, g, log, &ints, &strs, cfg.RedisURL == "")
		if err != nil {
			return err
		}
		defer closeFn()
		checks = append(checks, relayChecks...)
	}

	handler := newRouter(routerConfig{
		logger:         log,
		limiter:        rate.NewLimiter(rate.Limit(cfg.PublishRate), cfg.PublishBurst),
		maxMessageSize: cfg.MaxMessageSize,
		allowedOrigins: cfg.AllowedOrigins,
		checks:         checks,
	}, ints, strs)

	srv, err := server.NewFromConfig(srvCfg,
		server.WithLogger(log),
		server.WithShutdownHook(func(ctx context.Context) {
			drainAll(ctx, sockCfg.ShutdownTimeout, ints.registry, strs.registry)
		}),
	)
	if err != nil {
		return err
	}

	g.Go(srv.Run(ctx, handler))

	return g.Wait()
}

// drainAll closes every socket of both registries once the HTTP server has
// stopped accepting upgrades.
func drainAll(ctx context.Context, timeout time.Duration, ints *socket.Registry[int], strs *socket.Registry[string]) {
	if timeout <= 0 {
		timeout = socket.DefaultShutdownTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = max(min(timeout, time.Until(deadline)), 0)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ints.DrainAll(timeout)
	}()
	go func() {
		defer wg.Done()
		strs.DrainAll(timeout)
	}()
	wg.Wait()
}

func startRedis(ctx context.Context, g *errgroup.Group, log *slog.Logger, ints *hub[int], strs *hub[string]) ([]func(context.Context) error, func(), error) {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, err
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	intBridge := redis.NewBridge[int](client, ints.registry, ints.parse,
		redis.WithChannel(cfg.Channel+":int"), redis.WithLogger(log))
	strBridge := redis.NewBridge[string](client, strs.registry, strs.parse,
		redis.WithChannel(cfg.Channel+":string"), redis.WithLogger(log))

	g.Go(intBridge.Run(ctx))
	g.Go(strBridge.Run(ctx))

	ints.publisher = intBridge
	strs.publisher = strBridge

	log.Info("redis relay enabled", logger.Channel(cfg.Channel))

	checks := []func(context.Context) error{
		redis.Healthcheck(client),
		intBridge.Healthcheck,
		strBridge.Healthcheck,
	}
	return checks, func() { _ = client.Close() }, nil
}

func startPostgres(ctx context.Context, g *errgroup.Group, log *slog.Logger, ints *hub[int], strs *hub[string], publish bool) ([]func(context.Context) error, func(), error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, err
	}

	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	intChannel, strChannel := cfg.NotifyChannel+"_int", cfg.NotifyChannel+"_string"
	intListener := pg.NewListener[int](pool, ints.registry, ints.parse,
		pg.WithChannel(intChannel), pg.WithLogger(log), pg.WithRetryInterval(cfg.RetryInterval))
	strListener := pg.NewListener[string](pool, strs.registry, strs.parse,
		pg.WithChannel(strChannel), pg.WithLogger(log), pg.WithRetryInterval(cfg.RetryInterval))

	g.Go(intListener.Run(ctx))
	g.Go(strListener.Run(ctx))

	if publish {
		ints.publisher = notifyPublisher[int]{pool: pool, channel: intChannel}
		strs.publisher = notifyPublisher[string]{pool: pool, channel: strChannel}
	}

	log.Info("postgres relay enabled", logger.Channel(cfg.NotifyChannel), slog.Bool("publish", publish))

	checks := []func(context.Context) error{
		pg.Healthcheck(pool),
		intListener.Healthcheck,
		strListener.Healthcheck,
	}
	return checks, pool.Close, nil
}
