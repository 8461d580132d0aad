// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion, packing and downmix helpers
package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float32
	}{
		{"zero", 0, 0},
		{"half", 16384, 0.5},
		{"negative half", -16384, -0.5},
		{"min", -32768, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SampleFromInt16(tt.input))
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int16
	}{
		{"zero", 0, 0},
		{"half", 0.5, 16384},
		{"negative half", -0.5, -16384},
		{"clip high", 1.5, math.MaxInt16},
		{"clip low", -2, math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SampleToInt16(tt.input))
		})
	}
}

func TestSampleFromInt(t *testing.T) {
	assert.Equal(t, float32(0.5), SampleFromInt(1<<22, 24))
	assert.Equal(t, float32(-1), SampleFromInt(-32768, 16))
	assert.Equal(t, float32(0), SampleFromInt(100, 0), "invalid bit depth yields silence")
}

func TestPutFloat32LE(t *testing.T) {
	samples := []float32{0, 1, -0.25}
	dst := make([]byte, len(samples)*BytesPerSample)

	n := PutFloat32LE(dst, samples)

	assert.Equal(t, 12, n)
	// 1.0 = 0x3F800000
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, dst[4:8])
	for i, s := range samples {
		assert.Equal(t, s, Float32FromLE(dst[i*BytesPerSample:]))
	}
}

func TestDownmix(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}

	mono := Downmix(stereo, 2)

	assert.Equal(t, []float32{0.5, 0.5, 0}, mono)
}

func TestDownmixMonoPassthrough(t *testing.T) {
	in := []float32{0.1, 0.2}
	assert.Equal(t, in, Downmix(in, 1))
}

func TestBufferFrames(t *testing.T) {
	b := Buffer{Samples: make([]float32, 10), Format: Format{Channels: 2}}
	assert.Equal(t, 5, b.Frames())

	b.Format.Channels = 0
	assert.Equal(t, 10, b.Frames())
}
