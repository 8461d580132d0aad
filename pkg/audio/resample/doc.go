// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts decoded samples to the output stream rate
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates and maps
// frame indices from the input rate to the output rate so step tables stay
// aligned with the resampled buffer.
//
// Example:
//
//	r := resample.New(48000, 44100, 1)
//	out := make([]float32, r.OutputSamplesNeeded(len(in)))
//	n := r.Resample(in, out)
package resample
