// Package gorilla adapts github.com/gorilla/websocket connections to
// socket.Conn and provides an http.Handler that upgrades requests and hands
// them to a socket registry.
//
//	reg := socket.New[int](socket.WithLogger(log))
//	r.Get("/ws/{id}", gorilla.Handler(reg, func(r *http.Request) (int, error) {
//		return socket.ParseIntKey(chi.URLParam(r, "id"))
//	}, gorilla.WithAllowAnyOrigin()))
//
// Inbound messages are limited to DefaultReadLimit bytes unless WithReadLimit
// says otherwise. The peer's close frame is not answered by gorilla itself;
// the registry session echoes it.
package gorilla
