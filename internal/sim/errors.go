package sim

import (
	"errors"
	"fmt"
)

// Domain errors for world construction and runs.
var (
	// ErrInvalidConfig indicates a world or run configuration out of range.
	ErrInvalidConfig = errors.New("sim: invalid configuration")

	// ErrCanceled indicates a run stopped by its context.
	ErrCanceled = errors.New("sim: run canceled")

	// ErrUnstable indicates a body position or velocity became NaN or Inf.
	ErrUnstable = errors.New("sim: simulation unstable (state diverged)")
)

// SimError wraps an error with the frame it happened on.
type SimError struct {
	Frame   int
	Time    float64
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return e.Err
}
