// Package plan decides how a clip's transparency is handled: decode the real
// alpha channel, synthesize transparency from a near-black background, or
// produce an opaque GIF. The decision is pure and computed once, before
// decoding starts; it drives both the decoder's pixel format and the
// encoder's filter graph.
package plan

import (
	"gifsmith/internal/config"
	"gifsmith/internal/probe"
)

// ConversionPlan is the transparency decision for one conversion job.
// Invariant: SynthesizeFromBlack implies UseTransparency.
type ConversionPlan struct {
	// UseTransparency requests a 4-channel decode and a transparent
	// palette entry in the encoder.
	UseTransparency bool

	// SynthesizeFromBlack turns near-black pixels transparent in the
	// transformer step. Only set when the source has no real alpha.
	SynthesizeFromBlack bool

	// BlackThreshold is the per-channel cutoff for the mask. Meaningful
	// only when SynthesizeFromBlack is set.
	BlackThreshold int
}

// Channels returns the decoder channel count the plan requires: 4 when
// transparency is in play, 3 otherwise.
func (p ConversionPlan) Channels() int {
	if p.UseTransparency {
		return 4
	}
	return 3
}

// Build computes the plan from probed metadata and the analyzer's near-black
// ratio:
//
//   - a source with a real alpha channel uses it directly;
//   - a source whose sampled frames exceed the black-ratio threshold is
//     treated as having an intentional transparent background;
//   - everything else converts without transparency.
func Build(info *probe.VideoInfo, blackRatio float64, det config.Detection) ConversionPlan {
	if info.HasAlpha {
		return ConversionPlan{UseTransparency: true}
	}
	if blackRatio > det.BlackRatioThreshold {
		return ConversionPlan{
			UseTransparency:     true,
			SynthesizeFromBlack: true,
			BlackThreshold:      det.BlackPixelThreshold,
		}
	}
	return ConversionPlan{}
}
