// ABOUTME: WAV audio encoder
// ABOUTME: Encodes float32 samples to integer PCM WAV via go-audio/wav
package encode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM audio format tag
const wavFormatPCM = 1

// WAVEncoder writes mono integer PCM WAV
type WAVEncoder struct {
	enc      *wav.Encoder
	bitDepth int
	buf      *goaudio.IntBuffer
}

// NewWAV creates a mono WAV encoder writing to w
func NewWAV(w io.WriteSeeker, sampleRate, bitDepth int) (*WAVEncoder, error) {
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}

	return &WAVEncoder{
		enc:      wav.NewEncoder(w, sampleRate, bitDepth, audio.DefaultChannels, wavFormatPCM),
		bitDepth: bitDepth,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: audio.DefaultChannels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Encode appends samples to the file
func (e *WAVEncoder) Encode(samples []float32) error {
	scale := float64(int64(1)<<uint(e.bitDepth-1)) - 1

	if cap(e.buf.Data) < len(samples) {
		e.buf.Data = make([]int, len(samples))
	}
	e.buf.Data = e.buf.Data[:len(samples)]

	for i, s := range samples {
		v := float64(s)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		e.buf.Data[i] = int(v * scale)
	}

	if err := e.enc.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write WAV samples: %w", err)
	}
	return nil
}

// Close finalizes the RIFF header sizes
func (e *WAVEncoder) Close() error {
	return e.enc.Close()
}
