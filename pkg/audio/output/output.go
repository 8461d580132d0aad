// ABOUTME: Audio output interface definition
// ABOUTME: Common interface and backend lookup for audio playback backends
package output

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConnected is returned by control methods called before Connect
	ErrNotConnected = errors.New("stream not connected")
	// ErrUnsupportedBackend is returned by New for unknown backend names
	ErrUnsupportedBackend = errors.New("unsupported backend")
)

// RenderFunc fills out completely and returns the number of frames written.
// It runs on the backend's real-time thread and must not block or allocate.
type RenderFunc func(out []float32) int

// SkipFunc is told when a backend tick had no buffer to render into
type SkipFunc func(reason string)

// SkipNotifier is implemented by streams that report skipped ticks.
// OnSkip must be called before Connect.
type SkipNotifier interface {
	OnSkip(fn SkipFunc)
}

// Stream represents one mono output stream
type Stream interface {
	// Connect acquires the device and registers render; the stream starts inactive
	Connect(render RenderFunc) error

	// SetActive starts or pauses pulling frames from render
	SetActive(active bool) error

	// Active reports whether the stream is pulling frames
	Active() bool

	// Close releases the device
	Close() error
}

// New creates the named backend. periodFrames is a buffer size hint.
func New(backend string, sampleRate, periodFrames int) (Stream, error) {
	switch strings.ToLower(backend) {
	case "oto":
		return NewOto(sampleRate, periodFrames), nil
	case "malgo":
		return NewMalgo(sampleRate, periodFrames), nil
	case "portaudio":
		return NewPortAudio(sampleRate, periodFrames), nil
	case "null":
		return NewNull(sampleRate, periodFrames, nil), nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: oto, malgo, portaudio, null)", ErrUnsupportedBackend, backend)
	}
}
