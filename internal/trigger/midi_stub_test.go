//go:build !midi

package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Resonate-Protocol/musicbox-go/internal/config"
)

func TestNewMIDIWithoutSupport(t *testing.T) {
	assert.False(t, MIDISupported)
	_, err := New(config.MIDITransport{Port: "any", Note: -1}, "PLAY")
	assert.ErrorIs(t, err, ErrMIDIDisabled)
}
