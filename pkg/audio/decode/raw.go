// ABOUTME: Raw float32 sample decoder
// ABOUTME: Reads headerless mono f32le files into memory
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
)

// ErrTruncated is returned when a raw file ends in the middle of a sample
var ErrTruncated = errors.New("truncated sample data")

// RawDecoder decodes headerless mono little-endian float32
type RawDecoder struct {
	sampleRate int
}

// NewRaw creates a raw decoder for data recorded at sampleRate
func NewRaw(sampleRate int) *RawDecoder {
	return &RawDecoder{sampleRate: sampleRate}
}

// Decode reads all of r as f32le frames
func (d *RawDecoder) Decode(r io.ReadSeeker) (audio.Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to read raw samples: %w", err)
	}

	if len(data)%audio.BytesPerSample != 0 {
		return audio.Buffer{}, fmt.Errorf("%w: %d bytes is not a multiple of %d",
			ErrTruncated, len(data), audio.BytesPerSample)
	}

	samples := make([]float32, len(data)/audio.BytesPerSample)
	for i := range samples {
		samples[i] = audio.Float32FromLE(data[i*audio.BytesPerSample:])
	}

	return audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      "raw",
			SampleRate: d.sampleRate,
			Channels:   1,
			BitDepth:   32,
		},
	}, nil
}
