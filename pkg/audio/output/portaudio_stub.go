//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"fmt"
)

// PortAudio output implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio output
func NewPortAudio(sampleRate, periodFrames int) Stream {
	return &PortAudio{}
}

// Connect initializes PortAudio
func (p *PortAudio) Connect(render RenderFunc) error {
	return fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// SetActive starts or stops the stream
func (p *PortAudio) SetActive(active bool) error {
	return ErrNotConnected
}

// Active reports whether the stream is started
func (p *PortAudio) Active() bool {
	return false
}

// Close releases resources
func (p *PortAudio) Close() error {
	return nil
}
