package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/sockethub/core/health"
	"github.com/dmitrymomot/sockethub/core/logger"
	"github.com/dmitrymomot/sockethub/core/socket"
	"github.com/dmitrymomot/sockethub/integration/database/pg"
	"github.com/dmitrymomot/sockethub/integration/websocket/coder"
	"github.com/dmitrymomot/sockethub/integration/websocket/gorilla"
	"github.com/dmitrymomot/sockethub/middleware"
)

type routerConfig struct {
	logger         *slog.Logger
	limiter        *rate.Limiter
	maxMessageSize int64
	allowedOrigins []string
	checks         []func(context.Context) error
	now            func() time.Time
}

func newRouter(cfg routerConfig, ints hub[int], strs hub[string]) http.Handler {
	if cfg.logger == nil {
		cfg.logger = logger.Discard()
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	if cfg.limiter == nil {
		cfg.limiter = rate.NewLimiter(rate.Inf, 0)
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: cfg.logger,
		Skip:   func(r *http.Request) bool { return strings.HasPrefix(r.URL.Path, "/health/") },
	}))

	gorillaOpts := []gorilla.Option{
		gorilla.WithReadLimit(cfg.maxMessageSize),
		gorilla.WithErrorHandler(upgradeErrorLogger(cfg.logger, "gorilla")),
	}
	coderOpts := []coder.Option{
		coder.WithReadLimit(cfg.maxMessageSize),
		coder.WithErrorHandler(upgradeErrorLogger(cfg.logger, "coder")),
	}
	if len(cfg.allowedOrigins) == 0 {
		gorillaOpts = append(gorillaOpts, gorilla.WithAllowAnyOrigin())
		coderOpts = append(coderOpts, coder.WithAllowAnyOrigin())
	} else {
		gorillaOpts = append(gorillaOpts, gorilla.WithOriginCheck(originAllowed(cfg.allowedOrigins)))
		coderOpts = append(coderOpts, coder.WithOriginPatterns(cfg.allowedOrigins...))
	}

	r.Route("/ws", func(r chi.Router) {
		r.Get("/{id}", gorilla.Handler(ints.registry, pathKey(ints.parse), gorillaOpts...))
		r.Get("/string/{id}", gorilla.Handler(strs.registry, pathKey(strs.parse), gorillaOpts...))
		r.Get("/coder/{id}", coder.Handler(ints.registry, pathKey(ints.parse), coderOpts...))
		r.Get("/coder/string/{id}", coder.Handler(strs.registry, pathKey(strs.parse), coderOpts...))
	})

	r.Route("/post", func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{Limiter: cfg.limiter}))

		intPublish := publishHandler(ints, cfg)
		strPublish := publishHandler(strs, cfg)
		r.Get("/{id}", intPublish)
		r.Post("/{id}", intPublish)
		r.Get("/string/{id}", strPublish)
		r.Post("/string/{id}", strPublish)
	})

	r.Get("/stats", statsHandler(ints, strs))
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness(cfg.logger, cfg.checks...))

	return r
}

func pathKey[K comparable](parse socket.KeyParser[K]) func(*http.Request) (K, error) {
	return func(r *http.Request) (K, error) {
		return parse(chi.URLParam(r, "id"))
	}
}

// publishHandler broadcasts the POST body, or a generated line when the body
// is empty or the request is a GET, to every socket subscribed to the key.
func publishHandler[K comparable](h hub[K], cfg routerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "id")
		key, err := h.parse(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		message := fmt.Sprintf("This is the message: coming from id %s at time %s",
			raw, cfg.now().Format(time.RFC3339))

		if r.Method == http.MethodPost {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, cfg.maxMessageSize))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					http.Error(w, "message too large", http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			if len(body) > 0 {
				message = string(body)
			}
		}

		if err := h.publisher.Publish(r.Context(), key, message); err != nil {
			switch {
			case errors.Is(err, socket.ErrNotTextMessage):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, pg.ErrPayloadTooLarge):
				http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			default:
				cfg.logger.ErrorContext(r.Context(), "publish failed",
					logger.Topic(key), logger.Error(err))
				http.Error(w, "publish failed", http.StatusBadGateway)
			}
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "OK")
	}
}

func statsHandler(ints hub[int], strs hub[string]) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]socket.Stats{
			"int":    ints.registry.Stats(),
			"string": strs.registry.Stats(),
		})
	}
}

// upgradeErrorLogger reports failed upgrades and sessions that ended with an
// error.
func upgradeErrorLogger(log *slog.Logger, transport string) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		log.WarnContext(ctx, "websocket error",
			logger.Component(transport), logger.Error(err))
	}
}

// originAllowed matches the Origin host against patterns the way the coder
// adapter does, so both transports accept the same origins.
func originAllowed(patterns []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		host := strings.ToLower(u.Host)
		for _, p := range patterns {
			if ok, _ := path.Match(strings.ToLower(p), host); ok {
				return true
			}
		}
		return false
	}
}
