package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sockethub/core/config"
)

type defaultsConfig struct {
	Addr        string        `env:"CONFIG_TEST_DEFAULTS_ADDR" envDefault:":9000"`
	SendTimeout time.Duration `env:"CONFIG_TEST_DEFAULTS_SEND_TIMEOUT" envDefault:"3s"`
}

type envConfig struct {
	Channel string `env:"CONFIG_TEST_ENV_CHANNEL" envDefault:"default"`
	Workers int    `env:"CONFIG_TEST_ENV_WORKERS" envDefault:"1"`
}

type requiredConfig struct {
	URL string `env:"CONFIG_TEST_REQUIRED_URL,required"`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED_VALUE" envDefault:"first"`
}

// Tests below use t.Setenv and therefore cannot run in parallel.

func TestLoad_Defaults(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.SendTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_TEST_ENV_CHANNEL", "sockets")
	t.Setenv("CONFIG_TEST_ENV_WORKERS", "8")

	var cfg envConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "sockets", cfg.Channel)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_TEST_REQUIRED_URL")
}

func TestLoad_CachedPerType(t *testing.T) {
	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	t.Setenv("CONFIG_TEST_CACHED_VALUE", "second")

	var again cachedConfig
	require.NoError(t, config.Load(&again))
	assert.Equal(t, "first", again.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilConfig)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
