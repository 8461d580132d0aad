// ABOUTME: Audio encoders package
// ABOUTME: Writes rendered music box output to WAV files
// Package encode writes float32 PCM produced by the render path to disk.
//
// Example:
//
//	enc, err := encode.NewWAV(file, 44100, 16)
//	err = enc.Encode(frames)
//	err = enc.Close()
package encode
