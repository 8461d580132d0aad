//go:build malgo

// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo with an f32 data callback
package output

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
	"github.com/gen2brain/malgo"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	sampleRate   int
	periodFrames int

	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device

	render RenderFunc
	skip   SkipFunc
	frames []float32

	active atomic.Bool
	mu     sync.Mutex
}

// NewMalgo creates a new Malgo output
func NewMalgo(sampleRate, periodFrames int) Stream {
	return &Malgo{
		sampleRate:   sampleRate,
		periodFrames: periodFrames,
	}
}

// Connect initializes the miniaudio context and playback device without starting it
func (m *Malgo) Connect(render RenderFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = audio.DefaultChannels
	deviceConfig.SampleRate = uint32(m.sampleRate)
	if m.periodFrames > 0 {
		deviceConfig.PeriodSizeInFrames = uint32(m.periodFrames)
	}

	m.render = render
	m.frames = make([]float32, 4096)

	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutput, _ []byte, frameCount uint32) {
			m.dataCallback(pOutput, int(frameCount))
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	m.malgoCtx = ctx
	m.device = device
	return nil
}

// dataCallback is called by miniaudio to fill the device buffer
func (m *Malgo) dataCallback(pOutput []byte, frameCount int) {
	if frameCount == 0 || len(pOutput) < frameCount*audio.BytesPerSample {
		if m.skip != nil {
			m.skip("miniaudio supplied no usable buffer")
		}
		return
	}
	if len(m.frames) < frameCount {
		m.frames = make([]float32, frameCount)
	}
	frames := m.frames[:frameCount]

	m.render(frames)
	audio.PutFloat32LE(pOutput, frames)
}

// OnSkip registers fn for callbacks without a usable buffer
func (m *Malgo) OnSkip(fn SkipFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skip = fn
}

// SetActive starts or stops the device
func (m *Malgo) SetActive(active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return ErrNotConnected
	}
	if active == m.active.Load() {
		return nil
	}

	if active {
		if err := m.device.Start(); err != nil {
			return fmt.Errorf("failed to start device: %w", err)
		}
	} else {
		if err := m.device.Stop(); err != nil {
			return fmt.Errorf("failed to stop device: %w", err)
		}
	}
	m.active.Store(active)
	return nil
}

// Active reports whether the device is started
func (m *Malgo) Active() bool {
	return m.active.Load()
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		if m.active.Load() {
			_ = m.device.Stop()
		}
		m.device.Uninit()
		m.device = nil
	}
	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			return fmt.Errorf("malgo context uninit: %w", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	m.active.Store(false)
	return nil
}
