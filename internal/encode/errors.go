package encode

import (
	"errors"
	"fmt"
)

// ErrProcessDied is reported when a frame write fails because the encoder
// process has already exited. Distinct from transient I/O errors so the
// caller can tell "encoder crashed mid-stream" from "pipe hiccup".
var ErrProcessDied = errors.New("encoder process died")

// ErrNoFrames is returned by Close when no frame was ever supplied. Callers
// must guarantee at least one frame.
var ErrNoFrames = errors.New("no frames were written to the encoder")

// ExitError reports a non-zero encoder exit at finalize time, with the tail
// of the child's stderr for diagnostics.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("encoder exited with code %d", e.Code)
	}
	return fmt.Sprintf("encoder exited with code %d: %s", e.Code, e.Stderr)
}
