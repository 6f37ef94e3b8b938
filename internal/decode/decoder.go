// Package decode exposes an external ffmpeg decoder as a lazy sequence of
// fixed-shape frames. The child writes a raw, headerless pixel stream to its
// standard output; each Next call reads exactly one frame's worth of bytes.
// The sequence is finite and consumed once; re-decoding requires a new
// Decoder.
package decode

import (
	"context"
	"fmt"
	"io"
	"time"

	"gifsmith/internal/frame"
	"gifsmith/internal/proc"
	"gifsmith/internal/probe"
)

// terminateGrace is how long an abandoned decoder process gets to exit after
// SIGTERM before it is killed.
const terminateGrace = 5 * time.Second

// Decoder pulls decoded frames from an ffmpeg child process. It implements
// [frame.Source].
type Decoder struct {
	proc     *proc.Process
	r        io.Reader
	width    int
	height   int
	channels int
	fps      float64
	index    int
	closed   bool
}

// New spawns the decoder process for path, emitting raw frames at source
// resolution in the requested channel depth (3 for rgb24, 4 for rgba).
func New(ctx context.Context, path string, info *probe.VideoInfo, channels int) (*Decoder, error) {
	pixFmt := "rgb24"
	if channels == 4 {
		pixFmt = "rgba"
	}

	p, err := proc.StartReader(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", pixFmt,
		"-vcodec", "rawvideo",
		"-",
	)
	if err != nil {
		return nil, fmt.Errorf("start decoder for %q: %w", path, err)
	}

	d := newWithReader(p.Stdout, info, channels)
	d.proc = p
	return d, nil
}

// newWithReader builds a Decoder over an arbitrary byte stream. Used by New
// and by tests that substitute an in-memory stream for the child process.
func newWithReader(r io.Reader, info *probe.VideoInfo, channels int) *Decoder {
	return &Decoder{
		r:        r,
		width:    info.Width,
		height:   info.Height,
		channels: channels,
		fps:      info.FPS,
	}
}

// Next reads one frame from the stream. A short read — including zero bytes,
// meaning the child closed its output — returns io.EOF: the normal
// end-of-stream condition, not a failure. The k-th frame (0-indexed) is
// stamped k/fps seconds.
func (d *Decoder) Next() (*frame.Frame, error) {
	if d.closed {
		return nil, io.EOF
	}

	f := frame.New(d.width, d.height, d.channels, 0)
	if _, err := io.ReadFull(d.r, f.Pix); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame %d: %w", d.index, err)
	}

	if d.fps > 0 {
		f.Timestamp = float64(d.index) / d.fps
	}
	d.index++
	return f, nil
}

// Close terminates the decoder process if it is still running, waiting a
// bounded grace period before killing it. Safe to call whether the sequence
// was exhausted or abandoned early, and safe to call more than once.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.proc != nil {
		d.proc.Terminate(terminateGrace)
	}
	return nil
}
