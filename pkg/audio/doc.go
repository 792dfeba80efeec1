// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the Format descriptor and sample conversion functions
// Package audio provides the fundamental audio types shared by the encoder,
// decoder and playback packages.
//
// Format describes a linear PCM stream (sample rate, channel count, bit depth).
// It is supplied by configuration and trusted by the encoder once it validates.
//
// Example:
//
//	format := audio.DefaultSpeechFormat // 24000Hz mono 16-bit
//	if err := format.Validate(); err != nil {
//	    return err
//	}
//	fmt.Println(format.ByteRate()) // 48000
package audio
