// ABOUTME: Headless audio output implementation
// ABOUTME: Pulls frames on a ticker (or on demand) and hands them to an optional sink
package output

import (
	"sync"
	"sync/atomic"
	"time"
)

// SinkFunc receives each rendered period. The slice is reused after the call returns.
type SinkFunc func(frames []float32)

// Null is a stream without a device. It renders periodFrames per tick at the
// real-time rate, or only when Pull is called if created with NewManualNull.
type Null struct {
	periodFrames int
	interval     time.Duration
	sink         SinkFunc

	render RenderFunc
	frames []float32

	active atomic.Bool
	pulls  atomic.Int64

	stop chan struct{}
	done chan struct{}
	once sync.Once
	mu   sync.Mutex
}

// NewNull creates a headless stream ticking at the real-time rate of periodFrames
func NewNull(sampleRate, periodFrames int, sink SinkFunc) *Null {
	if periodFrames <= 0 {
		periodFrames = 512
	}
	interval := time.Duration(periodFrames) * time.Second / time.Duration(sampleRate)
	return &Null{
		periodFrames: periodFrames,
		interval:     interval,
		sink:         sink,
	}
}

// NewManualNull creates a headless stream that renders only when Pull is called
func NewManualNull(periodFrames int, sink SinkFunc) *Null {
	if periodFrames <= 0 {
		periodFrames = 512
	}
	return &Null{
		periodFrames: periodFrames,
		sink:         sink,
	}
}

// Connect registers render and starts the tick goroutine
func (n *Null) Connect(render RenderFunc) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.render = render
	n.frames = make([]float32, n.periodFrames)

	if n.interval > 0 {
		n.stop = make(chan struct{})
		n.done = make(chan struct{})
		go n.run()
	}
	return nil
}

func (n *Null) run() {
	defer close(n.done)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-n.stop:
			return
		case <-ticker.C:
			n.Pull()
		}
	}
}

// Pull renders one period if the stream is active and returns the frames rendered.
// Ticker-driven streams call it from their own goroutine; do not mix the two.
func (n *Null) Pull() int {
	if n.render == nil || !n.active.Load() {
		return 0
	}

	written := n.render(n.frames)
	n.pulls.Add(1)
	if n.sink != nil {
		n.sink(n.frames)
	}
	return written
}

// Pulls returns how many periods have been rendered
func (n *Null) Pulls() int64 {
	return n.pulls.Load()
}

// SetActive starts or pauses rendering
func (n *Null) SetActive(active bool) error {
	if n.render == nil {
		return ErrNotConnected
	}
	n.active.Store(active)
	return nil
}

// Active reports whether ticks render frames
func (n *Null) Active() bool {
	return n.active.Load()
}

// Close stops the tick goroutine
func (n *Null) Close() error {
	n.once.Do(func() {
		n.active.Store(false)
		if n.stop != nil {
			close(n.stop)
			<-n.done
		}
	})
	return nil
}
