// ABOUTME: Tests for the WAV encoder
// ABOUTME: Checks bit depth validation and the written header
package encode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWAVRejectsBitDepth(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	require.NoError(t, err)
	defer f.Close()

	for _, depth := range []int{8, 32, 0} {
		_, err := NewWAV(f, 44100, depth)
		assert.Error(t, err, "bit depth %d", depth)
	}
}

func TestWAVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc, err := NewWAV(f, 22050, 24)
	require.NoError(t, err)
	require.NoError(t, enc.Encode([]float32{0, 0.5, -0.5, 2, -2}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(22050), dec.SampleRate)
	assert.Equal(t, uint16(24), dec.BitDepth)
	assert.Equal(t, uint16(1), dec.NumChans)

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, buf.Data, 5)
	assert.Equal(t, (1<<23)-1, buf.Data[3], "clipped to full scale")
	assert.Equal(t, -((1 << 23) - 1), buf.Data[4])
}
