// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides the Output interface, an oto backend and a Discard backend
// Package output provides audio playback interfaces.
//
// Oto plays 16-bit PCM through the system audio device; Discard drops samples
// and is used when no device is wanted.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(audio.DefaultSpeechFormat)
//	err = out.Write(samples)
package output
