//go:build midi

// ABOUTME: MIDI trigger transport using gomidi with the rtmidi driver
// ABOUTME: Note-on messages on the configured input port become trigger payloads
package trigger

import (
	"context"
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// MIDISupported reports whether the MIDI transport was compiled in
const MIDISupported = true

// MIDIListener turns note-on messages into trigger events
type MIDIListener struct {
	port  drivers.In
	note  int
	token []byte

	once sync.Once
	done chan struct{}
}

// ListenMIDI opens the named input port. A negative note accepts any note.
func ListenMIDI(port string, note int, token string) (*MIDIListener, error) {
	in, err := gomidi.FindInPort(port)
	if err != nil {
		return nil, fmt.Errorf("find MIDI input %q: %w", port, err)
	}
	return &MIDIListener{
		port:  in,
		note:  note,
		token: []byte(token),
		done:  make(chan struct{}),
	}, nil
}

// Listen delivers one event per matching note-on until ctx is done
func (l *MIDIListener) Listen(ctx context.Context, events chan<- Event) error {
	source := "midi:" + l.port.String()

	stop, err := gomidi.ListenTo(l.port, func(msg gomidi.Message, timestampms int32) {
		var channel, key, velocity uint8
		if !msg.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
			return
		}
		if l.note >= 0 && int(key) != l.note {
			return
		}
		// the driver callback must not block
		select {
		case events <- NewEvent(source, l.token):
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("open MIDI input: %w", err)
	}
	defer stop()

	select {
	case <-ctx.Done():
	case <-l.done:
	}
	return nil
}

// Addr returns the port name
func (l *MIDIListener) Addr() string {
	return l.port.String()
}

// Close stops listening and closes the port
func (l *MIDIListener) Close() error {
	var err error
	l.once.Do(func() {
		close(l.done)
		err = l.port.Close()
	})
	return err
}

// CloseDrivers releases the MIDI driver at process exit
func CloseDrivers() {
	gomidi.CloseDriver()
}
