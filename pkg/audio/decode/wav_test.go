// ABOUTME: Tests for the WAV decoder
// ABOUTME: Round-trips PCM through the WAV encoder and rejects junk input
package decode

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Resonate-Protocol/musicbox-go/pkg/audio/encode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAVDecodeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc, err := encode.NewWAV(f, 22050, 16)
	require.NoError(t, err)
	require.NoError(t, enc.Encode([]float32{0, 0.5, -0.5, 0.25}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf, err := NewWAV().Decode(f)
	require.NoError(t, err)

	assert.Equal(t, 22050, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.Channels)
	assert.Equal(t, 16, buf.Format.BitDepth)
	require.Len(t, buf.Samples, 4)
	assert.InDelta(t, 0, buf.Samples[0], 1e-4)
	assert.InDelta(t, 0.5, buf.Samples[1], 1e-3)
	assert.InDelta(t, -0.5, buf.Samples[2], 1e-3)
	assert.InDelta(t, 0.25, buf.Samples[3], 1e-3)
}

func TestWAVDecodeInvalid(t *testing.T) {
	_, err := NewWAV().Decode(bytes.NewReader([]byte("definitely not a riff file")))
	assert.ErrorIs(t, err, ErrInvalidWAV)
}
