package socket

import "time"

// Config holds registry settings with environment variable support.
type Config struct {
	SendTimeout        time.Duration `env:"SOCKET_SEND_TIMEOUT" envDefault:"10s"`
	CloseTimeout       time.Duration `env:"SOCKET_CLOSE_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout    time.Duration `env:"SOCKET_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MaxConcurrentSends int           `env:"SOCKET_MAX_CONCURRENT_SENDS" envDefault:"64"`
}

// DefaultConfig returns the defaults used by New.
func DefaultConfig() Config {
	return Config{
		SendTimeout:        DefaultSendTimeout,
		CloseTimeout:       DefaultCloseTimeout,
		ShutdownTimeout:    DefaultShutdownTimeout,
		MaxConcurrentSends: DefaultMaxConcurrentSends,
	}
}

// NewFromConfig creates a Registry from cfg. Zero values keep the defaults;
// opts are applied after cfg and win over it.
func NewFromConfig[K comparable](cfg Config, opts ...Option) *Registry[K] {
	configOpts := []Option{
		WithSendTimeout(cfg.SendTimeout),
		WithCloseTimeout(cfg.CloseTimeout),
		WithShutdownTimeout(cfg.ShutdownTimeout),
		WithMaxConcurrentSends(cfg.MaxConcurrentSends),
	}
	return New[K](append(configOpts, opts...)...)
}
