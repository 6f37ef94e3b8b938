package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gifsmith/internal/analyze"
	"gifsmith/internal/config"
	"gifsmith/internal/decode"
	"gifsmith/internal/encode"
	"gifsmith/internal/frame"
	"gifsmith/internal/logging"
	"gifsmith/internal/plan"
	"gifsmith/internal/probe"
)

// minEstimatedFrames is the progress total used when duration*fps is not a
// usable estimate.
const minEstimatedFrames = 100

// Converter runs the per-file conversion state machine:
//
//	Probing -> Analyzing -> Planning -> StreamingConvert -> Finalizing
//
// The external collaborators are held as function fields so tests can
// substitute in-memory fakes for the probe, the analyzer, and the
// decoder/encoder processes.
type Converter struct {
	cfg *config.Config
	log *logging.Logger

	probeInfo  func(ctx context.Context, path string) (*probe.VideoInfo, error)
	blackRatio func(ctx context.Context, path string, info *probe.VideoInfo) float64
	openSource func(ctx context.Context, path string, info *probe.VideoInfo, channels int) (frame.Source, error)
	openSink   func(ctx context.Context, dest string, fps float64, transparent bool) frame.Sink
	progress   func(total int, label string) ProgressSink
}

// NewConverter wires a Converter to the real ffprobe/ffmpeg collaborators.
func NewConverter(cfg *config.Config, log *logging.Logger) *Converter {
	analyzer := analyze.New(cfg.Detection)
	return &Converter{
		cfg: cfg,
		log: log,
		probeInfo: func(ctx context.Context, path string) (*probe.VideoInfo, error) {
			return probe.NewProber(path).Info(ctx)
		},
		blackRatio: analyzer.BlackRatio,
		openSource: func(ctx context.Context, path string, info *probe.VideoInfo, channels int) (frame.Source, error) {
			return decode.New(ctx, path, info, channels)
		},
		openSink: func(ctx context.Context, dest string, fps float64, transparent bool) frame.Sink {
			return encode.New(ctx, dest, fps, transparent, cfg.Encode.AlphaThreshold)
		},
		progress: NewProgress,
	}
}

// Result summarizes one successful conversion.
type Result struct {
	Info        *probe.VideoInfo
	Plan        plan.ConversionPlan
	Frames      int
	Elapsed     time.Duration
	OutputBytes int64
}

// Convert processes one input file into output. On any failure the partial
// output is removed — a failed conversion never leaves a zero-byte or
// truncated file on disk — and the error identifies which stage or frame
// broke.
func (c *Converter) Convert(ctx context.Context, input, output string) (*Result, error) {
	start := time.Now()
	name := filepath.Base(input)

	// --- Probing ---
	info, err := c.probeInfo(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	c.log.Debug("  %dx%d @ %.3g fps, %.2fs, pix_fmt %s",
		info.Width, info.Height, info.FPS, info.Duration, info.PixFmt)

	// --- Analyzing (skipped when the source has a real alpha channel;
	// analyzer failures degrade to 0.0 inside BlackRatio, never fatal) ---
	blackRatio := 0.0
	if info.HasAlpha {
		c.log.Info("  Alpha channel detected (%s)", info.PixFmt)
	} else {
		blackRatio = c.blackRatio(ctx, input, info)
	}

	// --- Planning ---
	p := plan.Build(info, blackRatio, c.cfg.Detection)
	if p.SynthesizeFromBlack {
		c.log.Info("  %.0f%% near-black pixels, converting black to transparent", blackRatio*100)
	}

	if c.cfg.DryRun {
		c.log.Success("[DRY] Would convert %s (transparency=%v)", name, p.UseTransparency)
		return &Result{Info: info, Plan: p}, nil
	}

	// --- StreamingConvert ---
	src, err := c.openSource(ctx, input, info, p.Channels())
	if err != nil {
		return nil, c.fail(output, fmt.Errorf("open decoder: %w", err))
	}
	sink := c.openSink(ctx, output, info.FPS, p.UseTransparency)

	estimated := int(info.Duration * info.FPS)
	if estimated <= 0 {
		estimated = minEstimatedFrames
	}
	prog := c.progress(estimated, name)

	frames, streamErr := stream(src, sink, p, prog)

	// --- Finalizing: the encoder is always closed, the decoder always
	// terminated, whether the streaming loop succeeded or not ---
	closeErr := sink.Close()
	_ = src.Close()
	prog.Done()

	// A streaming failure wins over whatever Close reported afterwards.
	if streamErr != nil {
		return nil, c.fail(output, streamErr)
	}
	if closeErr != nil {
		return nil, c.fail(output, fmt.Errorf("finalize: %w", closeErr))
	}

	res := &Result{
		Info:    info,
		Plan:    p,
		Frames:  frames,
		Elapsed: time.Since(start),
	}
	if fi, err := os.Stat(output); err == nil {
		res.OutputBytes = fi.Size()
	}
	return res, nil
}

// stream is the pull-transform-push loop: strictly sequential, one frame in
// flight, bounded memory. Any failure is wrapped with the index of the frame
// being processed.
func stream(src frame.Source, sink frame.Sink, p plan.ConversionPlan, prog ProgressSink) (int, error) {
	frames := 0
	for {
		f, err := src.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, &FrameError{Index: frames, Err: err}
		}

		f = frame.Transform(f, p)

		if err := sink.Add(f); err != nil {
			return frames, &FrameError{Index: frames, Err: err}
		}
		frames++
		prog.Advance(1)
	}
}

// fail removes the partial output file, then returns err unchanged.
func (c *Converter) fail(output string, err error) error {
	if _, statErr := os.Stat(output); statErr == nil {
		if rmErr := os.Remove(output); rmErr != nil {
			c.log.Warn("Cannot remove partial output %s: %v", output, rmErr)
		}
	}
	return err
}
