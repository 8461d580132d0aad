//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform audio output using a PortAudio float32 callback
package output

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation
type PortAudio struct {
	sampleRate   int
	periodFrames int

	stream *portaudio.Stream
	skip   SkipFunc
	active atomic.Bool
	mu     sync.Mutex
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio(sampleRate, periodFrames int) Stream {
	return &PortAudio{
		sampleRate:   sampleRate,
		periodFrames: periodFrames,
	}
}

// Connect initializes PortAudio and opens the default output stream
func (p *PortAudio) Connect(render RenderFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	skip := p.skip
	stream, err := portaudio.OpenDefaultStream(0, audio.DefaultChannels, float64(p.sampleRate), p.periodFrames, func(out []float32) {
		if len(out) == 0 {
			if skip != nil {
				skip("portaudio supplied an empty buffer")
			}
			return
		}
		render(out)
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	p.stream = stream
	return nil
}

// OnSkip registers fn for callbacks with an empty buffer
func (p *PortAudio) OnSkip(fn SkipFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skip = fn
}

// SetActive starts or stops the stream
func (p *PortAudio) SetActive(active bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotConnected
	}
	if active == p.active.Load() {
		return nil
	}

	var err error
	if active {
		err = p.stream.Start()
	} else {
		err = p.stream.Stop()
	}
	if err != nil {
		return fmt.Errorf("portaudio stream: %w", err)
	}
	p.active.Store(active)
	return nil
}

// Active reports whether the stream is started
func (p *PortAudio) Active() bool {
	return p.active.Load()
}

// Close releases resources
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		if p.active.Load() {
			if err := p.stream.Stop(); err != nil {
				return err
			}
		}
		if err := p.stream.Close(); err != nil {
			return err
		}
		p.stream = nil
	}
	p.active.Store(false)
	return portaudio.Terminate()
}
