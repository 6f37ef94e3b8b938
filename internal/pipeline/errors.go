package pipeline

import "fmt"

// FrameError reports a failure while transforming or forwarding a specific
// frame. The index identifies how far the stream got before aborting.
type FrameError struct {
	Index int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
