// ABOUTME: Audio type definitions
// ABOUTME: Defines the audio format descriptor, its validation and sample conversions
package audio

import (
	"errors"
	"fmt"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// CodecPCM is the only codec this library produces
const CodecPCM = "pcm"

// DefaultSpeechFormat matches the output of generative speech APIs: 24kHz mono 16-bit PCM
var DefaultSpeechFormat = Format{
	Codec:      CodecPCM,
	SampleRate: 24000,
	Channels:   1,
	BitDepth:   16,
}

// ErrInvalidFormat is wrapped by every Validate failure
var ErrInvalidFormat = errors.New("invalid audio format")

// Format describes a linear PCM stream. It is a plain value and never mutated by this library.
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Validate checks that every field describes a usable PCM layout.
// The offending field name is reported through FieldError.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return &FieldError{Field: "sample rate", Value: f.SampleRate}
	}
	if f.Channels <= 0 {
		return &FieldError{Field: "channels", Value: f.Channels}
	}
	if f.BitDepth <= 0 || f.BitDepth%8 != 0 {
		return &FieldError{Field: "bits per sample", Value: f.BitDepth}
	}
	return nil
}

// BytesPerSample returns the size of one sample of one channel
func (f Format) BytesPerSample() int {
	return f.BitDepth / 8
}

// BlockAlign returns the size of one frame (one sample for every channel)
func (f Format) BlockAlign() int {
	return f.Channels * f.BytesPerSample()
}

// ByteRate returns the number of bytes per second of audio
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// String renders the format the way the UI shows it, e.g. "pcm 24000Hz mono 16-bit"
func (f Format) String() string {
	codec := f.Codec
	if codec == "" {
		codec = CodecPCM
	}
	return fmt.Sprintf("%s %dHz %s %d-bit", codec, f.SampleRate, ChannelName(f.Channels), f.BitDepth)
}

// FieldError reports which format field failed validation
type FieldError struct {
	Field string
	Value int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %d", e.Field, e.Value)
}

// Unwrap lets callers match any validation failure with errors.Is(err, ErrInvalidFormat)
func (e *FieldError) Unwrap() error {
	return ErrInvalidFormat
}

// ChannelName returns a human label for a channel count
func ChannelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}
