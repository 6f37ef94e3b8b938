// Package analyze estimates how much of a clip is near-black. The ratio is
// a heuristic proxy for "intended transparent background" on sources that
// carry no real alpha channel.
package analyze

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"gifsmith/internal/config"
	"gifsmith/internal/probe"
)

// nearBlackCutoff is the per-channel value below which a sampled pixel
// counts as near-black.
const nearBlackCutoff = 20

// Analyzer samples frames from a clip and measures the near-black pixel
// ratio. Analysis is best-effort: any decode failure degrades to a ratio of
// 0.0, which means no transparency is inferred.
type Analyzer struct {
	det config.Detection
}

// New returns an Analyzer using the given detection policy.
func New(det config.Detection) *Analyzer {
	return &Analyzer{det: det}
}

// BlackRatio decodes up to SampleFrames frames, evenly strided across the
// clip and scaled down to the sample resolution cap, and returns the
// fraction of sampled pixels whose three channels are all below the
// near-black cutoff. Returns 0.0 on any failure or when sampling produces
// no complete frame.
func (a *Analyzer) BlackRatio(ctx context.Context, path string, info *probe.VideoInfo) float64 {
	stride := info.FrameCount / a.det.SampleFrames
	if stride < 1 {
		stride = 1
	}
	w := min(a.det.SampleMaxWidth, info.Width)
	h := min(a.det.SampleMaxHeight, info.Height)
	if w <= 0 || h <= 0 {
		return 0.0
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-vf", fmt.Sprintf(`select=not(mod(n\,%d)),scale=%d:%d`, stride, w, h),
		"-frames:v", strconv.Itoa(a.det.SampleFrames),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	)
	cmd.Stderr = nil

	out, err := cmd.Output()
	if err != nil {
		return 0.0
	}
	return Ratio(out, w*h*3)
}

// Ratio computes the near-black pixel fraction over a concatenated rgb24
// buffer of frameSize-byte frames. A trailing partial frame is discarded.
// Returns 0.0 when the buffer holds no complete frame.
func Ratio(data []byte, frameSize int) float64 {
	if frameSize <= 0 {
		return 0.0
	}
	usable := len(data) - len(data)%frameSize
	if usable == 0 {
		return 0.0
	}

	var black int
	for i := 0; i+2 < usable; i += 3 {
		if data[i] < nearBlackCutoff && data[i+1] < nearBlackCutoff && data[i+2] < nearBlackCutoff {
			black++
		}
	}
	return float64(black) / float64(usable/3)
}
