package coder

import (
	"context"
	"net/http"
	"strings"

	"github.com/coder/websocket"

	"github.com/dmitrymomot/sockethub/core/socket"
)

// Sessions runs one connection's session. *socket.Registry implements it.
type Sessions[K comparable] interface {
	Serve(ctx context.Context, key K, conn socket.Conn) error
}

// Handler accepts the websocket and serves it under the key returned by
// keyFunc. Non-websocket requests and unresolvable keys get 400.
func Handler[K comparable](sessions Sessions[K], keyFunc func(*http.Request) (K, error), opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			http.Error(w, "not a websocket request", http.StatusBadRequest)
			return
		}

		key, err := keyFunc(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ws, err := websocket.Accept(w, r, cfg.accept)
		if err != nil {
			cfg.onError(r.Context(), err)
			return
		}

		if err := sessions.Serve(r.Context(), key, wrap(ws, cfg)); err != nil {
			cfg.onError(r.Context(), err)
		}
	}
}
