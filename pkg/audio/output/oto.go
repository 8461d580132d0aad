// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams float32 mono frames to oto by serving as its pull reader
package output

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using oto library
type Oto struct {
	sampleRate   int
	periodFrames int

	otoCtx *oto.Context
	player *oto.Player

	// Render path state, touched only from oto's reader goroutine
	render RenderFunc
	skip   SkipFunc
	frames []float32

	active atomic.Bool
	mu     sync.Mutex // control operations only
}

// NewOto creates a new Oto output
func NewOto(sampleRate, periodFrames int) *Oto {
	return &Oto{
		sampleRate:   sampleRate,
		periodFrames: periodFrames,
	}
}

// Connect creates the oto context and a paused player reading from this stream
func (o *Oto) Connect(render RenderFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		return fmt.Errorf("oto stream already connected")
	}

	op := &oto.NewContextOptions{
		SampleRate:   o.sampleRate,
		ChannelCount: audio.DefaultChannels,
		Format:       oto.FormatFloat32LE,
	}
	if o.periodFrames > 0 {
		op.BufferSize = time.Duration(o.periodFrames) * time.Second / time.Duration(o.sampleRate)
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.render = render
	// oto reads in chunks of a few KiB; size for the common case up front
	o.frames = make([]float32, 4096)
	o.player = ctx.NewPlayer(o)

	return nil
}

// Read is called by oto's goroutine; it is the render tick for this backend
func (o *Oto) Read(p []byte) (int, error) {
	n := len(p) / audio.BytesPerSample
	if n == 0 {
		if o.skip != nil {
			o.skip("oto requested an empty read")
		}
		return 0, nil
	}
	if len(o.frames) < n {
		o.frames = make([]float32, n)
	}
	frames := o.frames[:n]

	o.render(frames)
	return audio.PutFloat32LE(p, frames), nil
}

// OnSkip registers fn for reads too small to hold a frame
func (o *Oto) OnSkip(fn SkipFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skip = fn
}

// SetActive resumes or pauses the player
func (o *Oto) SetActive(active bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotConnected
	}
	if active {
		o.player.Play()
	} else {
		o.player.Pause()
	}
	o.active.Store(active)
	return nil
}

// Active reports whether the player is pulling frames
func (o *Oto) Active() bool {
	return o.active.Load()
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		o.player.Pause()
		if err := o.player.Close(); err != nil {
			return fmt.Errorf("failed to close oto player: %w", err)
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		// oto allows one context per process; suspending is the only release it offers
		if err := o.otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend oto context: %w", err)
		}
	}
	o.active.Store(false)
	return nil
}
