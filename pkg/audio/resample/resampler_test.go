// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling and frame index scaling
package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResampler(t *testing.T) {
	r := New(44100, 48000, 2)

	assert.Equal(t, 44100, r.inputRate)
	assert.Equal(t, 48000, r.outputRate)
	assert.Equal(t, 2, r.channels)
}

func TestResampleIdentity(t *testing.T) {
	r := New(44100, 44100, 1)
	in := []float32{0.1, 0.2, 0.3, 0.4}
	out := make([]float32, r.OutputSamplesNeeded(len(in)))

	n := r.Resample(in, out)

	assert.Equal(t, 4, n)
	assert.Equal(t, in, out[:n])
}

func TestResampleUpsampling(t *testing.T) {
	r := New(22050, 44100, 1)
	in := []float32{0, 1, 0}
	out := make([]float32, r.OutputSamplesNeeded(len(in)))

	n := r.Resample(in, out)

	assert.Equal(t, 6, n)
	assert.InDelta(t, 0.0, out[0], 1e-6)
	assert.InDelta(t, 0.5, out[1], 1e-6)
	assert.InDelta(t, 1.0, out[2], 1e-6)
	assert.InDelta(t, 0.5, out[3], 1e-6)
}

func TestResampleDownsampling(t *testing.T) {
	r := New(48000, 24000, 1)
	in := []float32{0, 1, 2, 3, 4, 5}
	out := make([]float32, r.OutputSamplesNeeded(len(in)))

	n := r.Resample(in, out)

	assert.Equal(t, 3, n)
	assert.Equal(t, []float32{0, 2, 4}, out[:n])
}

func TestResampleEmpty(t *testing.T) {
	r := New(48000, 44100, 1)
	assert.Equal(t, 0, r.Resample(nil, make([]float32, 4)))
}

func TestScaleFrame(t *testing.T) {
	r := New(48000, 24000, 1)
	assert.Equal(t, 50, r.ScaleFrame(100))
	assert.Equal(t, 0, r.ScaleFrame(0))

	up := New(22050, 44100, 1)
	assert.Equal(t, 200, up.ScaleFrame(100))
}

func TestOutputSamplesNeeded(t *testing.T) {
	r := New(22050, 44100, 2)
	assert.Equal(t, 400, r.OutputSamplesNeeded(200))
}
