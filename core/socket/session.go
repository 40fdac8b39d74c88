package socket

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/sockethub/core/logger"
)

// Serve registers conn under key and runs its session until the peer closes,
// the transport fails, ctx ends or the registry drains.
//
// Inbound text and binary frames are discarded. A close frame from the peer is
// answered with the same status. When ctx ends the connection is closed with
// going-away, and a panic in the transport is reported to the peer as an
// internal error. Whatever the outcome, the connection is deregistered and its
// transport released before Serve returns.
//
// Serve returns nil when the session ended normally and the receive error
// otherwise.
func (r *Registry[K]) Serve(ctx context.Context, key K, conn Conn) (err error) {
	reg, err := r.Register(key, conn)
	if err != nil {
		return err
	}

	log := r.logger.With(logger.Topic(key), logger.ConnID(reg.ID()))
	code, reason := CloseNormalClosure, ""

	defer func() {
		if p := recover(); p != nil {
			log.Error("socket session panic", logger.Panic(p))
			code, reason = CloseInternalServerErr, ""
			err = fmt.Errorf("socket: session panic: %v", p)
		}
		reg.Close(code, reason)
		log.Debug("socket session ended", logger.CloseCode(int(code)))
	}()

	for {
		frame, rerr := conn.Receive(ctx)
		if rerr != nil {
			switch {
			case ctx.Err() != nil:
				code = CloseGoingAway
				return nil
			case errors.Is(rerr, ErrConnClosed):
				log.Debug("socket receive stopped", logger.Error(rerr))
				return nil
			default:
				log.Warn("socket receive failed", logger.Error(rerr))
				return rerr
			}
		}

		if frame.Type == FrameClose {
			code, reason = frame.CloseCode, frame.CloseReason
			return nil
		}
		r.stats.discarded.Add(1)
	}
}
