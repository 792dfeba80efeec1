// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts clips between sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation, which is adequate for speech clips.
//
// Example:
//
//	r := resample.New(24000, 48000, 1)
//	out := r.Convert(samples)
package resample
