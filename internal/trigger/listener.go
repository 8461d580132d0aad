// ABOUTME: Builds the trigger listener for the configured transport
// ABOUTME: Maps each config.Transport variant onto its listener constructor
package trigger

import (
	"fmt"

	"github.com/Resonate-Protocol/musicbox-go/internal/config"
)

// New binds the listener described by t. token is the payload MIDI note-on
// messages are translated into.
func New(t config.Transport, token string) (Listener, error) {
	var (
		l   Listener
		err error
	)
	switch t := t.(type) {
	case config.UnixgramTransport:
		l, err = ListenUnixgram(t.SocketPath)
	case config.UDPTransport:
		l, err = ListenUDP(t.Address)
	case config.WebSocketTransport:
		l, err = ListenWebSocket(t.Address, t.Path)
	case config.MIDITransport:
		l, err = ListenMIDI(t.Port, t.Note, token)
	default:
		return nil, fmt.Errorf("unsupported transport %T", t)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Port returns the network port a listener is bound to, or 0 when it has none
func Port(l Listener) int {
	if p, ok := l.(interface{ Port() int }); ok {
		return p.Port()
	}
	return 0
}
