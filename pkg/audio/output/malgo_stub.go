//go:build !malgo

// ABOUTME: Malgo stub when miniaudio support is not compiled in
// ABOUTME: Provides compile-time placeholder when built without -tags malgo
package output

import (
	"fmt"
)

// Malgo output implementation (stub)
type Malgo struct{}

// NewMalgo creates a new Malgo output
func NewMalgo(sampleRate, periodFrames int) Stream {
	return &Malgo{}
}

// Connect initializes malgo
func (m *Malgo) Connect(render RenderFunc) error {
	return fmt.Errorf("malgo support not enabled (build with -tags malgo)")
}

// SetActive starts or stops the device
func (m *Malgo) SetActive(active bool) error {
	return ErrNotConnected
}

// Active reports whether the device is started
func (m *Malgo) Active() bool {
	return false
}

// Close releases resources
func (m *Malgo) Close() error {
	return nil
}
