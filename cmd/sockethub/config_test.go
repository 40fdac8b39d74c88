package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     appConfig
		debugOn bool
		warnOn  bool
	}{
		{name: "development defaults to debug", cfg: appConfig{Env: "development"}, debugOn: true, warnOn: true},
		{name: "production defaults to info", cfg: appConfig{Env: "Production"}, debugOn: false, warnOn: true},
		{name: "level overrides env", cfg: appConfig{Env: "development", LogLevel: "error"}, debugOn: false, warnOn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newLogger(tt.cfg).Handler()
			assert.Equal(t, tt.debugOn, h.Enabled(context.Background(), slog.LevelDebug))
			assert.Equal(t, tt.warnOn, h.Enabled(context.Background(), slog.LevelWarn))
		})
	}
}
