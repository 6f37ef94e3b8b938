package probe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Realistic ffprobe JSON for a VP9 WebM with an alpha channel.
const sampleAlpha = `{
  "streams": [
    {
      "width": 512,
      "height": 512,
      "pix_fmt": "yuva420p",
      "r_frame_rate": "30/1",
      "nb_frames": "90",
      "duration": "3.000000"
    }
  ],
  "format": {
    "duration": "3.000000"
  }
}`

// Opaque clip with NTSC frame rate and no stream duration.
const sampleOpaque = `{
  "streams": [
    {
      "width": 1280,
      "height": 720,
      "pix_fmt": "yuv420p",
      "r_frame_rate": "30000/1001",
      "nb_frames": "300"
    }
  ],
  "format": {
    "duration": "10.010000"
  }
}`

func TestParseJSON_AlphaClip(t *testing.T) {
	info, err := ParseJSON([]byte(sampleAlpha))
	require.NoError(t, err)

	assert.Equal(t, 512, info.Width)
	assert.Equal(t, 512, info.Height)
	assert.InDelta(t, 30.0, info.FPS, 1e-9)
	assert.InDelta(t, 3.0, info.Duration, 1e-9)
	assert.Equal(t, 90, info.FrameCount)
	assert.True(t, info.HasAlpha)
	assert.Equal(t, "yuva420p", info.PixFmt)
}

func TestParseJSON_OpaqueClip(t *testing.T) {
	info, err := ParseJSON([]byte(sampleOpaque))
	require.NoError(t, err)

	assert.False(t, info.HasAlpha)
	assert.InDelta(t, 29.97, info.FPS, 0.001)
}

func TestParseJSON_NoVideoStream(t *testing.T) {
	_, err := ParseJSON([]byte(`{"streams": [], "format": {}}`))
	assert.ErrorIs(t, err, ErrNoVideoStream)
}

func TestParseJSON_MissingDimensions(t *testing.T) {
	// A stream entry without width/height (some broken containers report
	// metadata-only streams) must not flow into the pipeline as a
	// zero-byte frame shape.
	js := `{"streams": [{"r_frame_rate": "30/1", "pix_fmt": "yuv420p"}], "format": {}}`
	_, err := ParseJSON([]byte(js))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadDimensions)
}

func TestParseJSON_BadJSON(t *testing.T) {
	_, err := ParseJSON([]byte(`{"streams": [`))
	assert.Error(t, err)
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"ntsc rational", "30000/1001", 30000.0 / 1001.0},
		{"plain rational", "25/1", 25.0},
		{"zero denominator falls back", "25/0", 30.0},
		{"plain number", "24", 24.0},
		{"garbage falls back", "abc", 30.0},
		{"empty falls back", "", 30.0},
		{"negative falls back", "-5", 30.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFrameRate(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("parseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDurationFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{
			"format duration preferred",
			`{"streams":[{"width":4,"height":4,"r_frame_rate":"24/1","duration":"5.0"}],"format":{"duration":"7.5"}}`,
			7.5,
		},
		{
			"stream duration when format missing",
			`{"streams":[{"width":4,"height":4,"r_frame_rate":"24/1","duration":"5.0"}],"format":{}}`,
			5.0,
		},
		{
			"derived from frame count",
			`{"streams":[{"width":4,"height":4,"r_frame_rate":"24/1","nb_frames":"240"}],"format":{}}`,
			10.0,
		},
		{
			"fixed fallback when nothing available",
			`{"streams":[{"width":4,"height":4,"r_frame_rate":"24/1"}],"format":{}}`,
			10.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseJSON([]byte(tt.json))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, info.Duration, 1e-9)
		})
	}
}

func TestPixFmtHasAlpha(t *testing.T) {
	tests := []struct {
		pixFmt string
		want   bool
	}{
		{"yuva420p", true},
		{"rgba", true},
		{"argb", true},
		{"bgra", true},
		{"abgr", true},
		{"yuv420p", false},
		{"rgb24", false},
		{"yuv420p10le", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.pixFmt, func(t *testing.T) {
			assert.Equal(t, tt.want, pixFmtHasAlpha(tt.pixFmt))
		})
	}
}
