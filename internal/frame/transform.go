package frame

import "gifsmith/internal/plan"

// Transform applies the conversion plan to a single frame: channel
// normalization first, then the optional black-to-transparent mask. The
// returned frame may share or replace the input buffer; the caller must
// treat the input as consumed.
func Transform(f *Frame, p plan.ConversionPlan) *Frame {
	if p.UseTransparency {
		f = EnsureAlpha(f)
	} else {
		f = StripAlpha(f)
	}
	if p.SynthesizeFromBlack {
		MaskBlack(f, p.BlackThreshold)
	}
	return f
}

// EnsureAlpha returns a 4-channel version of f, appending a fully opaque
// alpha channel when f has 3 channels. A 4-channel frame is returned
// unchanged.
func EnsureAlpha(f *Frame) *Frame {
	if f.Channels == 4 {
		return f
	}
	out := New(f.Width, f.Height, 4, f.Timestamp)
	for i, j := 0, 0; i < len(f.Pix); i, j = i+3, j+4 {
		out.Pix[j] = f.Pix[i]
		out.Pix[j+1] = f.Pix[i+1]
		out.Pix[j+2] = f.Pix[i+2]
		out.Pix[j+3] = 0xFF
	}
	return out
}

// StripAlpha returns a 3-channel version of f, dropping the alpha channel
// when f has 4 channels. A 3-channel frame is returned unchanged. Color
// bytes are preserved exactly; the alpha information is discarded.
func StripAlpha(f *Frame) *Frame {
	if f.Channels == 3 {
		return f
	}
	out := New(f.Width, f.Height, 3, f.Timestamp)
	for i, j := 0, 0; j < len(f.Pix); i, j = i+3, j+4 {
		out.Pix[i] = f.Pix[j]
		out.Pix[i+1] = f.Pix[j+1]
		out.Pix[i+2] = f.Pix[j+2]
	}
	return out
}

// MaskBlack sets alpha to 0 for every pixel whose three color channels are
// all at or below threshold, in place. Other pixels keep their existing
// alpha, so the operation is idempotent. No-op on 3-channel frames.
func MaskBlack(f *Frame, threshold int) {
	if f.Channels != 4 {
		return
	}
	t := byte(threshold)
	for i := 0; i < len(f.Pix); i += 4 {
		if f.Pix[i] <= t && f.Pix[i+1] <= t && f.Pix[i+2] <= t {
			f.Pix[i+3] = 0
		}
	}
}
