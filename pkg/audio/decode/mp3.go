// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 audio to float32 samples
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// ErrNoAudio is returned when a compressed stream decodes to zero samples
var ErrNoAudio = errors.New("stream contains no audio frames")

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3() *MP3Decoder {
	return &MP3Decoder{}
}

// Decode converts a complete MP3 stream to float32 samples.
// go-mp3 always produces 16-bit little-endian stereo.
func (d *MP3Decoder) Decode(r io.ReadSeeker) (audio.Buffer, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	data, err := io.ReadAll(decoder)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := len(data) / 2
	if numSamples == 0 {
		return audio.Buffer{}, ErrNoAudio
	}
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}

	return audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      "mp3",
			SampleRate: decoder.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
	}, nil
}
