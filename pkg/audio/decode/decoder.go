// ABOUTME: Decoder interface definition
// ABOUTME: Common interface and codec lookup for all sample decoders
package decode

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Resonate-Protocol/musicbox-go/pkg/audio"
)

// ErrUnsupportedCodec is returned by New for unknown codec names
var ErrUnsupportedCodec = errors.New("unsupported codec")

// Decoder decodes a complete sample file to PCM
type Decoder interface {
	// Decode reads the whole source and returns interleaved float32 samples
	Decode(r io.ReadSeeker) (audio.Buffer, error)
}

// New returns the decoder for codec. rate is only used by the raw codec,
// which carries no header and is assumed to be at the stream rate.
func New(codec string, rate int) (Decoder, error) {
	switch strings.ToLower(codec) {
	case "raw":
		return NewRaw(rate), nil
	case "wav":
		return NewWAV(), nil
	case "mp3":
		return NewMP3(), nil
	case "flac":
		return NewFLAC(), nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: raw, wav, mp3, flac)", ErrUnsupportedCodec, codec)
	}
}
