// Package probe provides ffprobe-based media inspection and the typed
// VideoInfo result. A single JSON call per file collects everything the
// conversion pipeline needs: dimensions, frame rate, duration, frame count,
// and pixel format.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoVideoStream is returned when the probed file carries no video stream.
var ErrNoVideoStream = errors.New("no video stream found")

// ErrBadDimensions is returned when the video stream reports a non-positive
// width or height. Such a stream cannot shape a frame buffer downstream.
var ErrBadDimensions = errors.New("video stream has invalid dimensions")

// fallbackFPS is used when the container reports a zero-denominator frame
// rate, and fallbackDuration when no duration can be derived at all.
const (
	fallbackFPS      = 30.0
	fallbackDuration = 10.0
)

// Prober memoizes one probe result per input file.
type Prober struct {
	path string
	info *VideoInfo
}

// NewProber returns a Prober for path. The first call to Info runs ffprobe;
// subsequent calls return the cached result.
func NewProber(path string) *Prober {
	return &Prober{path: path}
}

// Info returns the memoized VideoInfo, probing on first use.
func (p *Prober) Info(ctx context.Context) (*VideoInfo, error) {
	if p.info != nil {
		return p.info, nil
	}
	info, err := Probe(ctx, p.path)
	if err != nil {
		return nil, err
	}
	p.info = info
	return info, nil
}

// Probe runs a single ffprobe JSON call against path and returns the parsed
// result, restricted to the first video stream.
func Probe(ctx context.Context, path string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,duration,nb_frames,pix_fmt:format=duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	info, err := ParseJSON(out)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return info, nil
}

// ParseJSON converts raw ffprobe JSON output into a VideoInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*VideoInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	if len(raw.Streams) == 0 {
		return nil, ErrNoVideoStream
	}
	if s := &raw.Streams[0]; s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, s.Width, s.Height)
	}
	return buildInfo(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	Duration   string `json:"duration"`
	NbFrames   string `json:"nb_frames"`
	PixFmt     string `json:"pix_fmt"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

// --- Conversion from wire types to the domain type ---

func buildInfo(raw *ffprobeOutput) *VideoInfo {
	s := &raw.Streams[0]

	fps := parseFrameRate(s.RFrameRate)
	frameCount := parseInt(s.NbFrames)

	// Duration preference: container format, then stream, then derived
	// from the frame count, then a fixed fallback.
	duration := parseFloat(raw.Format.Duration)
	if duration <= 0 {
		duration = parseFloat(s.Duration)
	}
	if duration <= 0 && frameCount > 0 && fps > 0 {
		duration = float64(frameCount) / fps
	}
	if duration <= 0 {
		duration = fallbackDuration
	}

	return &VideoInfo{
		Width:      s.Width,
		Height:     s.Height,
		FPS:        fps,
		Duration:   duration,
		FrameCount: frameCount,
		HasAlpha:   pixFmtHasAlpha(s.PixFmt),
		PixFmt:     s.PixFmt,
	}
}

// parseFrameRate parses ffprobe's rational r_frame_rate ("30000/1001").
// A zero denominator falls back to 30 fps; a plain number ("24") is
// accepted as-is. Unparsable input also falls back to 30 fps.
func parseFrameRate(s string) float64 {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return fallbackFPS
		}
		return n / d
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return fallbackFPS
	}
	return f
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
