package socket

import "errors"

var (
	// ErrNilConn is returned when registering without an established connection.
	ErrNilConn = errors.New("socket: nil connection")

	// ErrRegistryClosed is returned when registering after drain-all started.
	ErrRegistryClosed = errors.New("socket: registry is closed")

	// ErrIDCollision is returned when the id generator keeps producing ids
	// that are already registered under the same key.
	ErrIDCollision = errors.New("socket: connection id collision")

	// ErrInvalidKey is returned when a topic key cannot be parsed.
	ErrInvalidKey = errors.New("socket: invalid topic key")

	// ErrConnClosed marks receive and send errors caused by an already
	// terminated transport. Adapters wrap their transport errors with it.
	ErrConnClosed = errors.New("socket: connection closed")

	// ErrSendTimeout is returned when a send could not start or finish in time.
	ErrSendTimeout = errors.New("socket: send timed out")

	// ErrNotTextMessage is returned for payloads that are not valid UTF-8.
	ErrNotTextMessage = errors.New("socket: message is not valid UTF-8 text")

	// ErrInvalidEnvelope is returned when a relayed broadcast cannot be decoded.
	ErrInvalidEnvelope = errors.New("socket: invalid broadcast envelope")

	// ErrHealthcheckFailed is returned by Registry.Healthcheck.
	ErrHealthcheckFailed = errors.New("socket: healthcheck failed")
)
