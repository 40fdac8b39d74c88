// Package logger builds *slog.Logger instances for the hub and its host
// process, and provides attribute helpers so every component logs the same
// keys for the same things.
//
// Create a logger for the current environment:
//
//	log := logger.New(logger.WithDevelopment("sockethub"))
//	log = logger.New(logger.WithProduction("sockethub"), logger.WithLevel(slog.LevelWarn))
//
// Log with the shared attributes:
//
//	log.Info("socket registered",
//		logger.Component("socket"),
//		logger.Topic(key),
//		logger.ConnID(id),
//	)
//
// Helpers that receive a nil or empty value return an empty slog.Attr, which
// slog drops, so callers never need nil checks:
//
//	log.Warn("send failed", logger.Error(err)) // no "error" key when err == nil
package logger
