package probe

import "strings"

// VideoInfo holds the parsed properties of the first video stream of a clip.
// It is derived once per input and cached for the lifetime of one conversion.
type VideoInfo struct {
	Width      int
	Height     int
	FPS        float64
	Duration   float64 // seconds
	FrameCount int     // 0 when the container does not report it
	HasAlpha   bool
	PixFmt     string
}

// alphaTokens are pixel-format fragments that indicate an alpha plane
// (e.g. yuva420p, rgba, argb, bgra).
var alphaTokens = []string{"yuva", "rgba", "argb", "bgra", "abgr"}

// pixFmtHasAlpha reports whether an ffprobe pix_fmt string names a format
// with an alpha channel.
func pixFmtHasAlpha(pixFmt string) bool {
	for _, tok := range alphaTokens {
		if strings.Contains(pixFmt, tok) {
			return true
		}
	}
	return false
}
