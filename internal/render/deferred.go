// ABOUTME: One-slot deferred call from the render path to the control loop
// ABOUTME: Requests never block; repeated requests before a drain collapse
package render

// Deferred carries "deactivate the stream" requests out of the render path.
// The control loop owning the stream drains Requests and performs the call.
type Deferred struct {
	ch chan struct{}
}

// NewDeferred creates an empty request slot
func NewDeferred() *Deferred {
	return &Deferred{ch: make(chan struct{}, 1)}
}

// Request posts a request and reports whether the slot was empty
func (d *Deferred) Request() bool {
	select {
	case d.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Requests is drained by the control loop
func (d *Deferred) Requests() <-chan struct{} {
	return d.ch
}
