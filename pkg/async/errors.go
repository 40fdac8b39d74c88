package async

import "errors"

// ErrTimeout is returned when waiting for futures exceeds the given duration.
var ErrTimeout = errors.New("async: timed out waiting for completion")
