// Package config loads typed configuration structs from environment variables.
//
// A .env file in the working directory is read once, on first use, without
// overriding variables that are already set. Parsing is done by
// github.com/caarlos0/env, so structs use its `env` and `envDefault` tags:
//
//	type Config struct {
//		Addr         string        `env:"SERVER_ADDR" envDefault:":8080"`
//		SendTimeout  time.Duration `env:"SOCKET_SEND_TIMEOUT" envDefault:"10s"`
//		RedisURL     string        `env:"REDIS_URL"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Each struct type is parsed once per process; later Load calls for the same
// type copy the cached value. Different types are cached independently.
package config
