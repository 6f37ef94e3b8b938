// Package frame defines the pixel buffer passed between pipeline stages, the
// FrameSource/FrameSink capability interfaces, and the per-frame transforms
// (channel normalization and black-to-transparent masking).
//
// A Frame is owned exclusively by whichever stage currently holds it;
// ownership transfers forward (decoder -> transformer -> encoder) and a stage
// may mutate or replace the buffer but must not retain it after handing it
// onward.
package frame

import "io"

// Frame is one decoded video frame: a row-major, interleaved byte buffer of
// Width*Height*Channels bytes with a presentation timestamp in seconds.
// Channels is 3 (RGB) or 4 (RGBA). Dimensions are fixed for the lifetime of
// one conversion; only the channel count may change, and only in the
// transformer step.
type Frame struct {
	Width     int
	Height    int
	Channels  int
	Pix       []byte
	Timestamp float64
}

// New allocates a zeroed frame of the given shape.
func New(width, height, channels int, timestamp float64) *Frame {
	return &Frame{
		Width:     width,
		Height:    height,
		Channels:  channels,
		Pix:       make([]byte, width*height*channels),
		Timestamp: timestamp,
	}
}

// Source is a lazy, finite, consumed-once sequence of frames. Next returns
// io.EOF when the stream ends; that is the normal termination condition, not
// a failure. Close releases whatever produces the frames (for the real
// decoder, the external process) and must be safe to call at any point of
// consumption, including before exhaustion.
type Source interface {
	Next() (*Frame, error)
	io.Closer
}

// Sink consumes frames. Close finalizes the destination and reports any
// failure to produce a complete output.
type Sink interface {
	Add(*Frame) error
	io.Closer
}
