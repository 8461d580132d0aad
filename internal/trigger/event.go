// ABOUTME: Trigger events and the transport listener contract
// ABOUTME: Every received control message becomes one Event for the run loop
package trigger

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/rs/xid"
)

// maxPayload is the largest control message read from a datagram
const maxPayload = 256

// Event is one control message received by a transport
type Event struct {
	ID       xid.ID
	Source   string
	Payload  []byte
	Received time.Time
}

// NewEvent stamps a payload with an ID and receive time
func NewEvent(source string, payload []byte) Event {
	return Event{
		ID:       xid.New(),
		Source:   source,
		Payload:  payload,
		Received: time.Now(),
	}
}

// Match reports whether payload is the trigger token. Only the first
// len(token) bytes are compared, so "PLAY\n" matches "PLAY".
func Match(payload []byte, token string) bool {
	if token == "" || len(payload) < len(token) {
		return false
	}
	return bytes.Equal(payload[:len(token)], []byte(token))
}

// Preview renders a payload for log lines, quoting unprintable bytes
func Preview(payload []byte) string {
	const limit = 32
	if len(payload) > limit {
		return strconv.Quote(string(payload[:limit])) + "..."
	}
	return strconv.Quote(string(payload))
}

// Listener receives control messages from one transport
type Listener interface {
	// Listen delivers events until ctx is done (returns nil) or the transport
	// fails (returns the error). It must not be called more than once.
	Listen(ctx context.Context, events chan<- Event) error

	// Addr describes the bound endpoint
	Addr() string

	// Close releases the endpoint; it unblocks a running Listen
	Close() error
}

// deliver hands an event to the run loop unless ctx is done first
func deliver(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
