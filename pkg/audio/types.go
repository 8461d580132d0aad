// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, decoded buffers and float sample conversions
package audio

import (
	"encoding/binary"
	"math"
)

const (
	// DefaultSampleRate is the rate of the single output stream
	DefaultSampleRate = 44100
	// DefaultChannels is the channel count of the output stream (mono)
	DefaultChannels = 1

	// BytesPerSample is the size of one float32 frame on the wire and on disk
	BytesPerSample = 4
)

// Format describes an audio stream or decoded file
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer holds decoded PCM audio as float32 in [-1, 1]
type Buffer struct {
	Samples []float32 // interleaved when Format.Channels > 1
	Format  Format
}

// Frames returns the number of frames in the buffer
func (b Buffer) Frames() int {
	if b.Format.Channels <= 0 {
		return len(b.Samples)
	}
	return len(b.Samples) / b.Format.Channels
}

// SampleFromInt16 converts an int16 sample to float32
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768.0
}

// SampleToInt16 converts a float32 sample to int16, clipping out-of-range values
func SampleToInt16(sample float32) int16 {
	if sample >= 1.0 {
		return math.MaxInt16
	}
	if sample <= -1.0 {
		return math.MinInt16
	}
	return int16(sample * 32768.0)
}

// SampleFromInt converts a signed integer sample of the given bit depth to float32
func SampleFromInt(sample int32, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	scale := float32(int64(1) << uint(bitDepth-1))
	return float32(sample) / scale
}

// PutFloat32LE packs samples into dst as little-endian float32 and returns the bytes written.
// dst must hold at least len(samples)*BytesPerSample bytes.
func PutFloat32LE(dst []byte, samples []float32) int {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(dst[i*BytesPerSample:], math.Float32bits(s))
	}
	return len(samples) * BytesPerSample
}

// Float32FromLE reads one little-endian float32
func Float32FromLE(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// Downmix averages interleaved channels into a mono buffer
func Downmix(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += samples[i*channels+ch]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
