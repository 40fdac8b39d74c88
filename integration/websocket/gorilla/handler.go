package gorilla

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/sockethub/core/socket"
)

// Sessions runs one connection's session. *socket.Registry implements it.
type Sessions[K comparable] interface {
	Serve(ctx context.Context, key K, conn socket.Conn) error
}

// Handler upgrades the request and serves the connection under the key
// returned by keyFunc. Requests that are not websocket upgrades, and requests
// whose key cannot be resolved, get 400 before any upgrade happens.
func Handler[K comparable](sessions Sessions[K], keyFunc func(*http.Request) (K, error), opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		if !websocket.IsWebSocketUpgrade(r) {
			http.Error(w, "not a websocket request", http.StatusBadRequest)
			return
		}

		key, err := keyFunc(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ws, err := cfg.upgrader.Upgrade(w, r, cfg.responseHeader)
		if err != nil {
			// Upgrade has already written the error response.
			cfg.onError(r.Context(), err)
			return
		}

		if err := sessions.Serve(r.Context(), key, wrap(ws, cfg)); err != nil {
			cfg.onError(r.Context(), err)
		}
	}
}
