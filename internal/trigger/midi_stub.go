//go:build !midi

// ABOUTME: Stub MIDI transport for builds without the midi tag
// ABOUTME: Keeps the default build free of the rtmidi cgo dependency
package trigger

import (
	"context"
	"errors"
)

// MIDISupported reports whether the MIDI transport was compiled in
const MIDISupported = false

// ErrMIDIDisabled is returned when the binary was built without the midi tag
var ErrMIDIDisabled = errors.New("MIDI support not enabled (build with -tags midi)")

// MIDIListener is unavailable in this build
type MIDIListener struct{}

// ListenMIDI always fails without the midi build tag
func ListenMIDI(port string, note int, token string) (*MIDIListener, error) {
	return nil, ErrMIDIDisabled
}

func (l *MIDIListener) Listen(ctx context.Context, events chan<- Event) error {
	return ErrMIDIDisabled
}

func (l *MIDIListener) Addr() string { return "" }

func (l *MIDIListener) Close() error { return nil }

// CloseDrivers is a no-op without MIDI support
func CloseDrivers() {}
