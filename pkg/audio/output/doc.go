// ABOUTME: Audio output package for the music box render path
// ABOUTME: Provides the Stream interface and pull-based backend implementations
// Package output adapts audio backends to a pull model: the backend owns the
// real-time thread and calls a RenderFunc whenever it needs frames.
//
// Backends:
//   - Oto: ebitengine/oto v3, the default on every platform
//   - Malgo: miniaudio via gen2brain/malgo (build with -tags malgo)
//   - PortAudio: gordonklaus/portaudio (build with -tags portaudio)
//   - Null: a ticker-driven headless stream for tests and machines without audio
//
// Streams are created inactive. SetActive must only be called from the
// goroutine that owns the stream, never from inside a RenderFunc.
//
// Example:
//
//	s, err := output.New("oto", audio.DefaultSampleRate, 512)
//	err = s.Connect(driver.Render)
//	err = s.SetActive(true)
package output
