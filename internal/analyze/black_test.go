package analyze

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// frameOf builds one rgb24 frame of n pixels, all set to the given channel value.
func frameOf(pixels int, value byte) []byte {
	return bytes.Repeat([]byte{value, value, value}, pixels)
}

func TestRatio(t *testing.T) {
	const frameSize = 4 * 3 // 4 pixels

	tests := []struct {
		name string
		data []byte
		want float64
	}{
		{"all black", frameOf(4, 0), 1.0},
		{"all bright", frameOf(4, 200), 0.0},
		{"value 19 counts as near-black", frameOf(4, 19), 1.0},
		{"value 20 does not", frameOf(4, 20), 0.0},
		{"empty input", nil, 0.0},
		{"half black across two frames", append(frameOf(4, 0), frameOf(4, 255)...), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.data, frameSize), 1e-9)
		})
	}
}

func TestRatio_DiscardsTrailingPartialFrame(t *testing.T) {
	const frameSize = 4 * 3

	// One full bright frame plus a half frame of black: the tail must not
	// be counted.
	data := append(frameOf(4, 255), frameOf(2, 0)...)
	assert.InDelta(t, 0.0, Ratio(data, frameSize), 1e-9)

	// Only a partial frame: no complete frame at all.
	assert.InDelta(t, 0.0, Ratio(frameOf(2, 0), frameSize), 1e-9)
}

func TestRatio_BadFrameSize(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(frameOf(4, 0), 0))
	assert.Equal(t, 0.0, Ratio(frameOf(4, 0), -3))
}

func TestRatio_MixedPixelsWithinFrame(t *testing.T) {
	// 2 of 4 pixels near-black.
	data := []byte{
		0, 0, 0,
		5, 5, 5,
		100, 0, 0, // one bright channel disqualifies
		255, 255, 255,
	}
	assert.InDelta(t, 0.5, Ratio(data, len(data)), 1e-9)
}
