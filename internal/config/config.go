// Package config holds runtime configuration: defaults, the optional TOML
// config file, and validation. Policy constants that drive transparency
// detection are named fields here rather than hidden literals so they can be
// tested and overridden independently.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Detection holds the transparency-inference policy. Defaults match the
// behavior the converter has always had; the TOML [detection] table can
// override any of them.
type Detection struct {
	// SampleFrames is how many frames the black-pixel analyzer decodes.
	SampleFrames int `toml:"sample_frames"`

	// SampleMaxWidth/SampleMaxHeight cap the analyzer's decode resolution.
	SampleMaxWidth  int `toml:"sample_max_width"`
	SampleMaxHeight int `toml:"sample_max_height"`

	// BlackRatioThreshold is the fraction of near-black pixels above which
	// a clip with no alpha channel is treated as having an intentional
	// transparent background.
	BlackRatioThreshold float64 `toml:"black_ratio_threshold"`

	// BlackPixelThreshold is the per-channel cutoff for the
	// black-to-transparent mask: pixels with all color channels at or
	// below it become fully transparent.
	BlackPixelThreshold int `toml:"black_pixel_threshold"`
}

// Encode holds encoder-side policy.
type Encode struct {
	// AlphaThreshold is passed to paletteuse: source alpha below it maps
	// to the reserved transparent palette entry.
	AlphaThreshold int `toml:"alpha_threshold"`
}

// Config holds all runtime settings. It is populated by [Default], optionally
// overlaid by [LoadFile], then mutated by CLI flag binding before being passed
// (by pointer) to packages that need it.
type Config struct {
	// Inputs are the positional arguments: files, directories, or empty
	// (meaning discover the current directory).
	Inputs []string

	// Output is the explicit output path. Only honored when exactly one
	// input file is named.
	Output string

	// Behavior flags.
	Force  bool // Reconvert even when a non-empty output already exists.
	DryRun bool // Plan and report, write nothing.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode
	LogFile   string // Optional log file path.
	CheckOnly bool   // Run --check diagnostics and exit.

	// Policy.
	Detection Detection `toml:"detection"`
	Encode    Encode    `toml:"encode"`
}

// Default returns a Config with the converter's stock policy: 10 sample
// frames at up to 320x240, a 10% black-ratio trigger, a 16-level black mask
// cutoff, and a 128 paletteuse alpha threshold.
func Default() Config {
	return Config{
		ColorMode: ColorAuto,
		Detection: Detection{
			SampleFrames:        10,
			SampleMaxWidth:      320,
			SampleMaxHeight:     240,
			BlackRatioThreshold: 0.10,
			BlackPixelThreshold: 16,
		},
		Encode: Encode{
			AlphaThreshold: 128,
		},
	}
}

// Validate checks enum fields and policy ranges.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	d := c.Detection
	if d.SampleFrames <= 0 {
		return fmt.Errorf("sample_frames must be positive, got %d", d.SampleFrames)
	}
	if d.SampleMaxWidth <= 0 || d.SampleMaxHeight <= 0 {
		return errors.New("sample resolution cap must be positive")
	}
	if d.BlackRatioThreshold < 0 || d.BlackRatioThreshold > 1 {
		return fmt.Errorf("black_ratio_threshold must be in [0,1], got %g", d.BlackRatioThreshold)
	}
	if d.BlackPixelThreshold < 0 || d.BlackPixelThreshold > 255 {
		return fmt.Errorf("black_pixel_threshold must be in [0,255], got %d", d.BlackPixelThreshold)
	}
	if t := c.Encode.AlphaThreshold; t < 0 || t > 255 {
		return fmt.Errorf("alpha_threshold must be in [0,255], got %d", t)
	}

	if c.Output != "" && len(c.Inputs) != 1 {
		return errors.New("--output requires exactly one input file")
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path. The
// filesystem root "/" is returned unchanged so we don't produce an empty
// string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}
