package render

import (
	"context"
	"errors"
	"fmt"

	mandel "github.com/azazak123/mandelbrot-set"
)

// ErrSuperseded is the cause of a Generator.Render call cancelled by a
// newer one. It matches context.Canceled.
var ErrSuperseded = fmt.Errorf("superseded by a newer view: %w", context.Canceled)

// WorkerError reports the strip whose evaluation failed. It matches
// mandel.ErrWorkerFailure.
type WorkerError struct {
	Strip int
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("strip %d: %v", e.Strip, e.Err)
}

func (e *WorkerError) Unwrap() []error {
	return []error{mandel.ErrWorkerFailure, e.Err}
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
