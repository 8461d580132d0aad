// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides the sample types shared by the music box decoders and backends.
//
// Samples are float32 in [-1, 1]. The output stream is mono at DefaultSampleRate.
// Helpers convert between integer PCM and float32, pack float32 frames as
// little-endian bytes and downmix interleaved channels to mono.
//
// Example:
//
//	buf := audio.Buffer{Samples: stereo, Format: audio.Format{SampleRate: 48000, Channels: 2}}
//	mono := audio.Downmix(buf.Samples, buf.Format.Channels)
package audio
