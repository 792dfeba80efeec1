// ABOUTME: Error types returned by the encoder
// ABOUTME: DecodeError for bad payloads, InvalidFormatError for bad format descriptors
package encode

import (
	"errors"
	"fmt"

	"github.com/harperreed/pronounce/pkg/audio"
)

var (
	// ErrMisalignedPayload means the PCM byte count is not a whole number of frames
	ErrMisalignedPayload = errors.New("pcm payload is not a whole number of frames")

	// ErrPayloadTooLarge means the payload does not fit the 32-bit RIFF size fields
	ErrPayloadTooLarge = errors.New("pcm payload too large for a wav container")
)

// DecodeError reports a payload that cannot become PCM: malformed base64,
// a truncated frame or an oversized buffer.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode audio payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// InvalidFormatError reports a format descriptor that cannot be written to a WAV header.
// It points at a configuration defect, not a transient condition.
type InvalidFormatError struct {
	Format audio.Format
	Err    error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid wav format (%dHz, %d channels, %d bits): %v",
		e.Format.SampleRate, e.Format.Channels, e.Format.BitDepth, e.Err)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}
