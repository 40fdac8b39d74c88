package socket

import (
	"context"
	"strconv"
)

// Conn is an established, bidirectional text-message connection.
//
// Adapters for concrete websocket libraries live under integration/websocket.
// Implementations must allow Close and Release to be called concurrently with
// Receive and SendText; SendText is never called concurrently with itself.
type Conn interface {
	// Receive blocks until the next inbound frame. A close frame from the peer
	// is reported as a Frame of type FrameClose with a nil error.
	Receive(ctx context.Context) (Frame, error)

	// SendText writes one UTF-8 text message.
	SendText(ctx context.Context, message string) error

	// Close starts a graceful close handshake with the given status.
	Close(ctx context.Context, code CloseCode, reason string) error

	// Release frees the underlying transport. It is called exactly once.
	Release() error
}

// FrameType classifies an inbound frame.
type FrameType int

const (
	FrameText FrameType = iota + 1
	FrameBinary
	FrameClose
)

func (t FrameType) String() string {
	switch t {
	case FrameText:
		return "text"
	case FrameBinary:
		return "binary"
	case FrameClose:
		return "close"
	default:
		return "unknown"
	}
}

// Frame is one inbound message. Data is only set for text and binary frames,
// CloseCode and CloseReason only for close frames.
type Frame struct {
	Type        FrameType
	Data        []byte
	CloseCode   CloseCode
	CloseReason string
}

// CloseCode is a websocket close status code (RFC 6455, section 7.4).
type CloseCode int

const (
	CloseNormalClosure     CloseCode = 1000
	CloseGoingAway         CloseCode = 1001
	CloseProtocolError     CloseCode = 1002
	CloseNoStatusReceived  CloseCode = 1005
	CloseAbnormalClosure   CloseCode = 1006
	CloseMessageTooBig     CloseCode = 1009
	CloseInternalServerErr CloseCode = 1011
)

func (c CloseCode) String() string {
	return strconv.Itoa(int(c))
}

// sendable reports whether the code may appear in a close frame we write.
// The reserved codes 1004-1006 and 1015 never go on the wire.
func (c CloseCode) sendable() bool {
	switch {
	case c == 1004, c == CloseNoStatusReceived, c == CloseAbnormalClosure, c == 1015:
		return false
	case c >= 1000 && c <= 1014:
		return true
	case c >= 3000 && c <= 4999:
		return true
	default:
		return false
	}
}
