// Package coder adapts github.com/coder/websocket connections to socket.Conn
// and provides an http.Handler that accepts requests into a socket registry.
//
// coder/websocket answers the peer's close frame on its own and closes the
// connection when a Read context is cancelled, so sessions served through
// this package end slightly more abruptly than with the gorilla adapter.
package coder
