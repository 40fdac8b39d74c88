package socket

import "sync/atomic"

// Stats is a point-in-time view of registry counters.
type Stats struct {
	Registered   int64 // connections ever registered
	Active       int64 // connections currently in the registry
	Topics       int   // topic entries, including empty ones
	Broadcasts   int64 // broadcasts that found at least one connection
	MessagesSent int64 // successful sends
	SendFailures int64 // failed or timed-out sends
	Pruned       int64 // connections removed by a broadcast
	Discarded    int64 // inbound frames ignored by sessions
	Draining     bool  // drain-all has started
}

type counters struct {
	registered   atomic.Int64
	active       atomic.Int64
	broadcasts   atomic.Int64
	messagesSent atomic.Int64
	sendFailures atomic.Int64
	pruned       atomic.Int64
	discarded    atomic.Int64
}
