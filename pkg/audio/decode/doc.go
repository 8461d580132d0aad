// ABOUTME: Audio decoders package for loading music box samples
// ABOUTME: Decodes raw f32le, WAV, MP3 and FLAC files into float32 buffers
// Package decode loads a whole sample file into memory as float32 PCM.
//
// Supported codecs:
//   - raw: headerless little-endian float32 (the native music box format)
//   - wav: RIFF/WAVE integer PCM
//   - mp3: MPEG-1/2 Layer III
//   - flac: Free Lossless Audio Codec
//
// Example:
//
//	dec, err := decode.New("flac", 44100)
//	buf, err := dec.Decode(file)
package decode
