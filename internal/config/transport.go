// ABOUTME: Control transport variants
// ABOUTME: One struct per transport holding only the fields it needs
package config

import "strings"

// TransportKind names a control transport
type TransportKind string

const (
	TransportUnixgram  TransportKind = "UNIXGRAM"
	TransportUDP       TransportKind = "UDP"
	TransportWebSocket TransportKind = "WEBSOCKET"
	TransportMIDI      TransportKind = "MIDI"
)

// Transport is the control message source. Exactly one of the concrete
// types below is held by Config.Transport.
type Transport interface {
	Kind() TransportKind
	// Networked reports whether the endpoint is reachable from other hosts
	Networked() bool
}

// UnixgramTransport is a local AF_UNIX datagram socket
type UnixgramTransport struct {
	SocketPath string
}

func (UnixgramTransport) Kind() TransportKind { return TransportUnixgram }
func (UnixgramTransport) Networked() bool     { return false }

// UDPTransport is a UDP datagram socket
type UDPTransport struct {
	Address string
}

func (UDPTransport) Kind() TransportKind { return TransportUDP }
func (UDPTransport) Networked() bool     { return true }

// WebSocketTransport accepts trigger messages over WebSocket connections
type WebSocketTransport struct {
	Address string
	Path    string
}

func (WebSocketTransport) Kind() TransportKind { return TransportWebSocket }
func (WebSocketTransport) Networked() bool     { return true }

// MIDITransport turns note-on messages from a MIDI input port into triggers
type MIDITransport struct {
	Port string
	// Note restricts triggers to one note number; -1 accepts any note
	Note int
}

func (MIDITransport) Kind() TransportKind { return TransportMIDI }
func (MIDITransport) Networked() bool     { return false }

func (raw file) transport() (Transport, error) {
	c := raw.Control
	kind := TransportKind(strings.ToUpper(c.Transport))
	if kind == "" {
		kind = TransportUnixgram
	}

	switch kind {
	case TransportUnixgram:
		path := c.SocketPath
		if path == "" {
			path = DefaultSocketPath
		}
		return UnixgramTransport{SocketPath: path}, nil

	case TransportUDP:
		if c.Address == "" {
			return nil, invalid("'control.address' is required for UDP")
		}
		return UDPTransport{Address: c.Address}, nil

	case TransportWebSocket:
		if c.Address == "" {
			return nil, invalid("'control.address' is required for WEBSOCKET")
		}
		path := c.Path
		if path == "" {
			path = DefaultWebSocketPath
		}
		if !strings.HasPrefix(path, "/") {
			return nil, invalid("'control.path' must start with '/'")
		}
		return WebSocketTransport{Address: c.Address, Path: path}, nil

	case TransportMIDI:
		if c.MIDIPort == "" {
			return nil, invalid("'control.midi_port' is required for MIDI")
		}
		note := -1
		if c.MIDINote != nil {
			note = *c.MIDINote
		}
		if note < -1 || note > 127 {
			return nil, invalid("'control.midi_note' must be -1 or 0-127")
		}
		return MIDITransport{Port: c.MIDIPort, Note: note}, nil

	default:
		return nil, invalid("unsupported transport '%s'", c.Transport)
	}
}
