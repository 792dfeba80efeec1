// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import "github.com/harperreed/pronounce/pkg/audio"

// Output represents an audio output device
type Output interface {
	// Open initializes the output device for the given format
	Open(format audio.Format) error

	// Write outputs audio samples (blocks until played)
	Write(samples []int32) error

	// Close releases output resources
	Close() error
}
