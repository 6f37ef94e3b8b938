// Package encode streams raw frames into an external ffmpeg process that
// resamples them, generates a shared color palette (optionally reserving a
// transparent entry), and writes a looping animated GIF. The process is
// spawned lazily on the first frame, once the output dimensions are known.
package encode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"syscall"
	"time"

	"gifsmith/internal/frame"
	"gifsmith/internal/proc"
)

// closeGrace bounds how long Close waits via Terminate when tearing down an
// encoder whose input was never opened cleanly. Normal Close waits for the
// child to drain and exit on its own.
const closeGrace = 5 * time.Second

// Encoder writes frames to an ffmpeg GIF pipeline. It implements
// [frame.Sink].
type Encoder struct {
	ctx            context.Context
	dest           string
	fps            float64
	transparent    bool
	alphaThreshold int

	proc   *proc.Process
	width  int
	height int
	frames int
	closed bool
}

// New prepares an encoder writing to dest at the given frame rate. Nothing
// is spawned until the first Add call supplies the frame dimensions. When
// transparent is set, the palette reserves a transparent entry and
// alphaThreshold decides transparent vs opaque per pixel.
func New(ctx context.Context, dest string, fps float64, transparent bool, alphaThreshold int) *Encoder {
	return &Encoder{
		ctx:            ctx,
		dest:           dest,
		fps:            fps,
		transparent:    transparent,
		alphaThreshold: alphaThreshold,
	}
}

// Add writes one frame to the encoder, spawning the process on first use.
// The frame's channel count is validated against the transparency mode and
// re-normalized if a caller bypassed the transformer. A write failure when
// the child has already exited is reported as [ErrProcessDied]; other I/O
// errors pass through unchanged.
func (e *Encoder) Add(f *frame.Frame) error {
	if e.closed {
		return fmt.Errorf("add frame to closed encoder")
	}

	if e.proc == nil {
		if err := e.start(f.Width, f.Height); err != nil {
			return err
		}
	}

	if e.transparent {
		f = frame.EnsureAlpha(f)
	} else {
		f = frame.StripAlpha(f)
	}

	if _, err := e.proc.Stdin.Write(f.Pix); err != nil {
		// A dead child surfaces as EPIPE on the pipe write. Signal-0
		// liveness cannot tell an exited-but-unreaped child from a
		// running one, so the broken pipe is the authoritative signal.
		if errors.Is(err, syscall.EPIPE) || !e.proc.Alive() {
			return fmt.Errorf("write frame %d: %w", e.frames, ErrProcessDied)
		}
		return fmt.Errorf("write frame %d: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Frames returns how many frames have been written so far.
func (e *Encoder) Frames() int { return e.frames }

// Close closes the encoder's input, waits for the process to finish the
// palette pass, and verifies the exit status. A non-zero exit yields an
// [ExitError] carrying the code and a stderr tail. Closing an encoder that
// never received a frame fails with [ErrNoFrames]: the palette pipeline
// cannot produce an output from an empty stream.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if e.proc == nil {
		return ErrNoFrames
	}

	if err := e.proc.Stdin.Close(); err != nil {
		e.proc.Terminate(closeGrace)
		return fmt.Errorf("close encoder input: %w", err)
	}

	if err := e.proc.Wait(); err != nil {
		return &ExitError{
			Code:   e.proc.ExitCode(),
			Stderr: e.proc.StderrTail(20),
		}
	}
	return nil
}

// start spawns the ffmpeg child once the output dimensions are known.
func (e *Encoder) start(width, height int) error {
	e.width = width
	e.height = height

	p, err := proc.StartWriter(e.ctx, "ffmpeg", buildArgs(e.dest, width, height, e.fps, e.transparent, e.alphaThreshold)...)
	if err != nil {
		return fmt.Errorf("start encoder for %q: %w", e.dest, err)
	}
	e.proc = p
	return nil
}

// buildArgs assembles the full encoder invocation: a raw pixel stream on
// stdin at the declared shape and rate, the palette filter graph, and an
// indefinitely looping GIF at dest.
func buildArgs(dest string, width, height int, fps float64, transparent bool, alphaThreshold int) []string {
	pixFmt := "rgb24"
	if transparent {
		pixFmt = "rgba"
	}

	args := make([]string, 0, 24)
	args = append(args, "-hide_banner", "-y", "-v", "error")

	// --- Input: headerless raw stream on stdin ---
	args = append(args,
		"-f", "rawvideo",
		"-vcodec", "rawvideo",
		"-pix_fmt", pixFmt,
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", formatFPS(fps),
		"-i", "-",
	)

	// --- Palette filter graph ---
	args = append(args, "-filter_complex", filterGraph(width, height, fps, transparent, alphaThreshold))

	// --- Output: loop forever ---
	args = append(args, "-loop", "0", dest)

	return args
}

// filterGraph builds the split/palettegen/paletteuse graph. The stream is
// resampled to the target rate with lanczos scaling, one branch generates
// the shared palette (reserving a transparent entry when needed), and the
// other is mapped onto it.
func filterGraph(width, height int, fps float64, transparent bool, alphaThreshold int) string {
	base := fmt.Sprintf("[0:v] fps=%s,scale=%d:%d:flags=lanczos,split [a][b];",
		formatFPS(fps), width, height)
	if transparent {
		return base +
			"[a] palettegen=reserve_transparent=1 [p];" +
			"[b][p] paletteuse=alpha_threshold=" + strconv.Itoa(alphaThreshold)
	}
	return base +
		"[a] palettegen [p];" +
		"[b][p] paletteuse"
}

// formatFPS renders a frame rate without trailing zeros ("29.97", "30").
func formatFPS(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}
