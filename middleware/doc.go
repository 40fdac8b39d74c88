// Package middleware provides net/http middleware for the sockethub host:
// request ids, structured request logging and publish throttling.
//
// Every constructor returns func(http.Handler) http.Handler, so the
// middleware plugs into chi or any other router built on net/http.
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID())
//	r.Use(middleware.Logging(log))
//	r.With(middleware.RateLimit(middleware.RateLimitConfig{
//		Limiter: rate.NewLimiter(50, 100),
//	})).Post("/post/{id}", publish)
//
// # Websocket Upgrades
//
// None of the middleware hides http.Hijacker. Logging wraps the writer with
// chi's WrapResponseWriter, which forwards Hijack, and records an upgraded
// request with status 101 once the socket session returns.
//
// # Request ID
//
// RequestID stores an id in the request context (see GetRequestID) and sets
// the X-Request-ID response header before the handler runs.
//
// # Rate Limiting
//
// RateLimit draws one token per request from a golang.org/x/time/rate
// limiter shared by all clients and answers 429 Too Many Requests with a
// Retry-After header when the bucket is empty.
package middleware
