// ABOUTME: Audio output interface tests
// ABOUTME: Verifies backend lookup, stub behavior and the headless stream
package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBackendsImplementStream(t *testing.T) {
	var _ Stream = (*Oto)(nil)
	var _ Stream = (*Null)(nil)
	var _ Stream = NewMalgo(44100, 512)
	var _ Stream = NewPortAudio(44100, 512)
	var _ SkipNotifier = (*Oto)(nil)
}

func TestNewByName(t *testing.T) {
	s, err := New("NULL", 44100, 256)
	require.NoError(t, err)
	assert.IsType(t, &Null{}, s)

	s, err = New("oto", 44100, 256)
	require.NoError(t, err)
	assert.IsType(t, &Oto{}, s)

	_, err = New("pipewire", 44100, 256)
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestManualNullPull(t *testing.T) {
	var got []float32
	n := NewManualNull(4, func(frames []float32) {
		got = append(got, frames...)
	})

	calls := 0
	require.NoError(t, n.Connect(func(out []float32) int {
		calls++
		for i := range out {
			out[i] = float32(calls)
		}
		return len(out)
	}))

	assert.Equal(t, 0, n.Pull(), "inactive stream must not render")

	require.NoError(t, n.SetActive(true))
	assert.Equal(t, 4, n.Pull())
	assert.Equal(t, 4, n.Pull())

	assert.Equal(t, []float32{1, 1, 1, 1, 2, 2, 2, 2}, got)
	assert.Equal(t, int64(2), n.Pulls())
	require.NoError(t, n.Close())
}

func TestNullSetActiveBeforeConnect(t *testing.T) {
	n := NewManualNull(4, nil)
	assert.ErrorIs(t, n.SetActive(true), ErrNotConnected)
}

func TestTickingNullRendersWhileActive(t *testing.T) {
	defer goleak.VerifyNone(t)

	n := NewNull(48000, 48, nil) // 1ms period
	require.NoError(t, n.Connect(func(out []float32) int { return len(out) }))
	require.NoError(t, n.SetActive(true))

	assert.Eventually(t, func() bool { return n.Pulls() >= 3 }, time.Second, time.Millisecond)

	require.NoError(t, n.SetActive(false))
	require.NoError(t, n.Close())
	require.NoError(t, n.Close(), "close is idempotent")
}
