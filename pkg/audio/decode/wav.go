// ABOUTME: WAV audio decoder
// ABOUTME: Decodes RIFF/WAVE integer PCM via go-audio/wav
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for files without a valid RIFF/WAVE header
var ErrInvalidWAV = errors.New("not a valid WAV file")

// WAVDecoder decodes WAV files
type WAVDecoder struct{}

// NewWAV creates a WAV decoder
func NewWAV() *WAVDecoder {
	return &WAVDecoder{}
}

// Decode reads the full PCM payload of a WAV file
func (d *WAVDecoder) Decode(r io.ReadSeeker) (audio.Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return audio.Buffer{}, ErrInvalidWAV
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to decode WAV: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	samples := make([]float32, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = audio.SampleFromInt(int32(v), bitDepth)
	}

	return audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      "wav",
			SampleRate: int(dec.SampleRate),
			Channels:   int(dec.NumChans),
			BitDepth:   bitDepth,
		},
	}, nil
}
