package async

import (
	"context"
	"errors"
	"time"
)

// ExecFuture is the pending result of a function that only returns an error.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Exec runs fn(ctx, param) in its own goroutine.
// If ctx is already done when the goroutine starts, fn is not called and the
// future resolves with ctx.Err().
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.err = fn(ctx, param)
	}()

	return f
}

// Await blocks until the function returns and reports its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// IsComplete reports whether the function has returned, without blocking.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// AwaitAll waits for every future under one shared deadline.
//
// It returns how many futures completed before the deadline. The error is
// ErrTimeout when at least one future was still running at the deadline,
// otherwise the errors returned by the futures joined together (nil if all
// succeeded). Futures that miss the deadline are abandoned, not cancelled.
func AwaitAll(timeout time.Duration, futures ...*ExecFuture) (int, error) {
	if len(futures) == 0 {
		return 0, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var (
		completed int
		errs      []error
	)
	for _, f := range futures {
		select {
		case <-f.done:
		case <-timer.C:
			// Later futures may have finished while we were blocked on this one.
			completed = 0
			for _, rest := range futures {
				if rest.IsComplete() {
					completed++
				}
			}
			return completed, ErrTimeout
		}
		completed++
		if f.err != nil {
			errs = append(errs, f.err)
		}
	}

	return completed, errors.Join(errs...)
}
