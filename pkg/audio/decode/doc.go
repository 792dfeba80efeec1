// ABOUTME: Audio decoder package for reading PCM and WAV data back
// ABOUTME: Provides the Decoder interface, the PCM decoder and a WAV container parser
// Package decode reads audio produced by the encode package.
//
// ParseWAV splits a RIFF/WAVE file into its format and PCM payload, and
// NewPCM turns PCM bytes into int32 samples in 24-bit range for playback.
//
// Example:
//
//	file, err := decode.ParseWAV(data)
//	decoder, err := decode.NewPCM(file.Format)
//	samples, err := decoder.Decode(file.PCM)
package decode
