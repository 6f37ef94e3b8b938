package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile overlays cfg with values from a TOML config file. Only the keys
// present in the file are touched, so defaults hold for everything else.
//
// Recognized tables:
//
//	[detection]
//	sample_frames = 10
//	sample_max_width = 320
//	sample_max_height = 240
//	black_ratio_threshold = 0.10
//	black_pixel_threshold = 16
//
//	[encode]
//	alpha_threshold = 128
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}
