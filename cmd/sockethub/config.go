package main

import (
	"log/slog"
	"strings"

	"github.com/dmitrymomot/sockethub/core/logger"
)

const serviceName = "sockethub"

// appConfig holds host-level settings. Component settings live in their own
// packages (server.Config, socket.Config, redis.Config, pg.Config).
type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	// PublishRate is the sustained number of publish requests per second
	// accepted across all clients; PublishBurst is the bucket size.
	PublishRate  float64 `env:"PUBLISH_RATE" envDefault:"50"`
	PublishBurst int     `env:"PUBLISH_BURST" envDefault:"100"`

	// MaxMessageSize caps POST bodies and inbound websocket frames.
	MaxMessageSize int64 `env:"MAX_MESSAGE_SIZE" envDefault:"4096"`

	// AllowedOrigins restricts websocket handshakes; empty allows any origin.
	AllowedOrigins []string `env:"WS_ALLOWED_ORIGINS" envSeparator:","`

	// Optional relays. Each is enabled when its connection string is set.
	RedisURL  string `env:"REDIS_URL"`
	PGConnURL string `env:"PG_CONN_URL"`
}

func newLogger(cfg appConfig) *slog.Logger {
	var opts []logger.Option
	if strings.EqualFold(cfg.Env, "production") {
		opts = append(opts, logger.WithProduction(serviceName))
	} else {
		opts = append(opts, logger.WithDevelopment(serviceName))
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(opts...)
}
