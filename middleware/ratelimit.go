package middleware

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Limiter is shared by every request passing through the middleware.
	Limiter *rate.Limiter
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// ErrorHandler writes the rejection (default: 429 with Retry-After).
	ErrorHandler func(w http.ResponseWriter, r *http.Request)
	// SetHeaders adds X-RateLimit-Limit and X-RateLimit-Burst to every response.
	SetHeaders bool
}

// RateLimit rejects requests once the token bucket is empty. Panics if no
// limiter is provided.
//
//	publish := middleware.RateLimit(middleware.RateLimitConfig{
//		Limiter: rate.NewLimiter(rate.Limit(50), 100),
//	})
//	r.With(publish).Post("/post/{id}", handler)
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = tooManyRequests(cfg.Limiter)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.SetHeaders {
				w.Header().Set("X-RateLimit-Limit", formatLimit(cfg.Limiter.Limit()))
				w.Header().Set("X-RateLimit-Burst", strconv.Itoa(cfg.Limiter.Burst()))
			}

			if !cfg.Limiter.Allow() {
				cfg.ErrorHandler(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func tooManyRequests(l *rate.Limiter) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		if limit := l.Limit(); limit > 0 && limit != rate.Inf {
			retry := math.Ceil(1 / float64(limit))
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(retry))))
		}
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
	}
}

func formatLimit(l rate.Limit) string {
	if l == rate.Inf {
		return "inf"
	}
	return strconv.FormatFloat(float64(l), 'f', -1, 64)
}
