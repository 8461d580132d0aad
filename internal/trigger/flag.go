// ABOUTME: Pending trigger flag shared by the control and render goroutines
// ABOUTME: Single-slot, lock-free; bursts collapse into one pending trigger
package trigger

import "sync/atomic"

// Flag holds at most one pending trigger. Offer is called from the control
// side, Take from the render side. A trigger offered while one is already
// pending is absorbed by it.
type Flag struct {
	pending atomic.Bool
}

// Offer marks a trigger as pending. It never blocks.
func (f *Flag) Offer() {
	f.pending.Store(true)
}

// Take consumes the pending trigger and reports whether there was one
func (f *Flag) Take() bool {
	return f.pending.CompareAndSwap(true, false)
}

// Pending reports whether a trigger is waiting without consuming it
func (f *Flag) Pending() bool {
	return f.pending.Load()
}
