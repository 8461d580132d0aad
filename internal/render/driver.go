// ABOUTME: Render driver invoked by the audio backend once per period
// ABOUTME: Fills buffers from the sequencer and defers stream deactivation
package render

import (
	"sync/atomic"

	"github.com/Resonate-Protocol/musicbox-go/internal/sequencer"
)

// skipQueue bounds how many skip reasons wait for the control loop to log them
const skipQueue = 16

// Driver adapts the sequencer to output.RenderFunc
type Driver struct {
	seq      *sequencer.Sequencer
	deferred *Deferred

	skips       atomic.Uint64
	skipReasons chan string
	deactivates atomic.Uint64
}

// NewDriver creates a driver that posts deactivation requests to deferred
func NewDriver(seq *sequencer.Sequencer, deferred *Deferred) *Driver {
	return &Driver{
		seq:         seq,
		deferred:    deferred,
		skipReasons: make(chan string, skipQueue),
	}
}

// Render fills out completely and returns len(out). When the sequence goes
// idle during this tick it asks the control loop to deactivate the stream.
func (d *Driver) Render(out []float32) int {
	if d.seq.Fill(out) {
		d.deactivates.Add(1)
		d.deferred.Request()
	}
	return len(out)
}

// Skip records a tick the backend could not render. It is never fatal.
func (d *Driver) Skip(reason string) {
	d.skips.Add(1)
	select {
	case d.skipReasons <- reason:
	default:
	}
}

// Skips returns the number of skipped ticks
func (d *Driver) Skips() uint64 {
	return d.skips.Load()
}

// SkipReasons is drained by the control loop for logging
func (d *Driver) SkipReasons() <-chan string {
	return d.skipReasons
}

// Deactivations returns how many times the driver requested deactivation
func (d *Driver) Deactivations() uint64 {
	return d.deactivates.Load()
}

// Sequencer returns the driven sequencer
func (d *Driver) Sequencer() *sequencer.Sequencer {
	return d.seq
}
