// ABOUTME: Tests for the sample store loader
// ABOUTME: Loads raw and WAV samples from disk, including rate handling
package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Resonate-Protocol/musicbox-go/internal/config"
	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
	"github.com/Resonate-Protocol/musicbox-go/pkg/audio/encode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRaw(t *testing.T, dir string, samples []float32) string {
	t.Helper()
	data := make([]byte, len(samples)*audio.BytesPerSample)
	audio.PutFloat32LE(data, samples)
	path := filepath.Join(dir, "sample.f32")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeSteps(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "steps.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ramp(n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(i) / float32(n)
	}
	return s
}

func TestLoadRaw(t *testing.T) {
	dir := t.TempDir()
	samples := ramp(250)
	opts := config.RawSample{
		SamplePath:  writeRaw(t, dir, samples),
		StepSeqPath: writeSteps(t, dir, "0 100\n100 250\n"),
	}

	st, err := Load(opts, 44100)
	require.NoError(t, err)

	assert.Equal(t, samples, st.Samples)
	assert.Equal(t, []Step{{0, 100}, {100, 250}}, st.Steps)
	assert.Equal(t, 250, st.Frames())

	st.Release()
	assert.Nil(t, st.Samples)
	assert.Nil(t, st.Steps)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, ramp(10))
	writeSteps(t, dir, "0 10\n")
	t.Setenv("MBAS_TEST_DIR", dir)

	st, err := Load(config.RawSample{
		SamplePath:  "$MBAS_TEST_DIR/sample.f32",
		StepSeqPath: "${MBAS_TEST_DIR}/steps.txt",
	}, 44100)
	require.NoError(t, err)
	assert.Len(t, st.Samples, 10)
}

func TestLoadRejectsOutOfBoundsStep(t *testing.T) {
	dir := t.TempDir()
	opts := config.RawSample{
		SamplePath:  writeRaw(t, dir, ramp(100)),
		StepSeqPath: writeSteps(t, dir, "0 50\n50 101\n"),
	}

	_, err := Load(opts, 44100)
	require.ErrorIs(t, err, ErrStepOutOfBounds)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(config.RawSample{
		SamplePath:  filepath.Join(dir, "missing.f32"),
		StepSeqPath: writeSteps(t, dir, "0 1\n"),
	}, 44100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open sample file")

	_, err = Load(config.RawSample{
		SamplePath:  writeRaw(t, dir, ramp(4)),
		StepSeqPath: filepath.Join(dir, "missing.txt"),
	}, 44100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open step sequence file")
}

func writeWAV(t *testing.T, dir string, rate int, samples []float32) string {
	t.Helper()
	path := filepath.Join(dir, "sample.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc, err := encode.NewWAV(f, rate, 16)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(samples))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

func TestLoadWAVRateMismatch(t *testing.T) {
	dir := t.TempDir()
	opts := config.EncodedSample{
		Format:      config.ModeWAV,
		SamplePath:  writeWAV(t, dir, 22050, ramp(100)),
		StepSeqPath: writeSteps(t, dir, "0 50\n50 100\n"),
	}

	_, err := Load(opts, 44100)
	assert.ErrorIs(t, err, ErrRateMismatch)
}

func TestLoadWAVResampled(t *testing.T) {
	dir := t.TempDir()
	opts := config.EncodedSample{
		Format:      config.ModeWAV,
		SamplePath:  writeWAV(t, dir, 22050, ramp(100)),
		StepSeqPath: writeSteps(t, dir, "0 50\n50 100\n"),
		Resample:    true,
	}

	st, err := Load(opts, 44100)
	require.NoError(t, err)

	assert.Equal(t, 200, st.Frames())
	assert.Equal(t, []Step{{0, 100}, {100, 200}}, st.Steps)
}

func TestNewValidates(t *testing.T) {
	_, err := New(make([]float32, 10), nil)
	assert.ErrorIs(t, err, ErrNoSteps)

	_, err = New(make([]float32, 10), []Step{{0, 5}, {5, 11}})
	assert.ErrorIs(t, err, ErrStepOutOfBounds)

	st, err := New(make([]float32, 10), []Step{{0, 10}})
	require.NoError(t, err)
	assert.Len(t, st.Steps, 1)
}
