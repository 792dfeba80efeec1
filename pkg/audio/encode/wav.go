// ABOUTME: WAV (RIFF/WAVE) container encoder
// ABOUTME: Builds the canonical 44-byte PCM header and assembles immutable containers
package encode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/harperreed/pronounce/pkg/audio"
)

// MIMETypeWAV is the media type of every container built here
const MIMETypeWAV = "audio/wav"

// Canonical PCM WAVE layout: RIFF descriptor (12) + fmt chunk (24) + data chunk header (8)
const (
	WAVHeaderSize = 44

	riffChunkSizeOffset = 4
	waveIDOffset        = 8
	fmtChunkOffset      = 12
	fmtSizeOffset       = 16
	audioFormatOffset   = 20
	numChannelsOffset   = 22
	sampleRateOffset    = 24
	byteRateOffset      = 28
	blockAlignOffset    = 32
	bitsPerSampleOffset = 34
	dataChunkOffset     = 36
	dataSizeOffset      = 40

	// ChunkSize counts everything after the RIFF id and size fields
	riffChunkSizeBase = WAVHeaderSize - 8

	fmtChunkSizePCM = 16
	audioFormatPCM  = 1
)

// WAVHeader builds the 44-byte header for dataLen bytes of PCM in the given format.
// The result depends only on its arguments.
func WAVHeader(format audio.Format, dataLen int) ([]byte, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if dataLen < 0 || uint64(dataLen) > math.MaxUint32-riffChunkSizeBase {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, dataLen)}
	}

	header := make([]byte, WAVHeaderSize)
	le := binary.LittleEndian

	copy(header[0:], "RIFF")
	le.PutUint32(header[riffChunkSizeOffset:], uint32(riffChunkSizeBase+dataLen))
	copy(header[waveIDOffset:], "WAVE")

	copy(header[fmtChunkOffset:], "fmt ")
	le.PutUint32(header[fmtSizeOffset:], fmtChunkSizePCM)
	le.PutUint16(header[audioFormatOffset:], audioFormatPCM)
	le.PutUint16(header[numChannelsOffset:], uint16(format.Channels))
	le.PutUint32(header[sampleRateOffset:], uint32(format.SampleRate))
	le.PutUint32(header[byteRateOffset:], uint32(format.ByteRate()))
	le.PutUint16(header[blockAlignOffset:], uint16(format.BlockAlign()))
	le.PutUint16(header[bitsPerSampleOffset:], uint16(format.BitDepth))

	copy(header[dataChunkOffset:], "data")
	le.PutUint32(header[dataSizeOffset:], uint32(dataLen))

	return header, nil
}

// checkFormat validates the descriptor and that every derived field fits its header slot
func checkFormat(format audio.Format) error {
	if err := format.Validate(); err != nil {
		return &InvalidFormatError{Format: format, Err: err}
	}

	switch {
	case format.Channels > math.MaxUint16:
		return &InvalidFormatError{Format: format, Err: fmt.Errorf("%w: channels exceed 16 bits", audio.ErrInvalidFormat)}
	case format.BitDepth > math.MaxUint16:
		return &InvalidFormatError{Format: format, Err: fmt.Errorf("%w: bits per sample exceed 16 bits", audio.ErrInvalidFormat)}
	case format.BlockAlign() > math.MaxUint16:
		return &InvalidFormatError{Format: format, Err: fmt.Errorf("%w: block align exceeds 16 bits", audio.ErrInvalidFormat)}
	case uint64(format.SampleRate) > math.MaxUint32:
		return &InvalidFormatError{Format: format, Err: fmt.Errorf("%w: sample rate exceeds 32 bits", audio.ErrInvalidFormat)}
	// sample rate fits 32 bits and block align 16, so the product cannot wrap
	case uint64(format.SampleRate)*uint64(format.BlockAlign()) > math.MaxUint32:
		return &InvalidFormatError{Format: format, Err: fmt.Errorf("%w: byte rate exceeds 32 bits", audio.ErrInvalidFormat)}
	}
	return nil
}

// Container is a complete WAV file. It never changes after construction and
// owns no OS resources, so dropping it is the only cleanup required.
type Container struct {
	data   []byte
	format audio.Format
}

// Bytes returns a copy of the full file (header + PCM)
func (c *Container) Bytes() []byte {
	return bytes.Clone(c.data)
}

// Len returns the total file size: WAVHeaderSize + DataLen()
func (c *Container) Len() int {
	return len(c.data)
}

// DataLen returns the size of the PCM payload
func (c *Container) DataLen() int {
	return len(c.data) - WAVHeaderSize
}

// Format returns the format written to the header
func (c *Container) Format() audio.Format {
	return c.format
}

// MIMEType returns "audio/wav"
func (c *Container) MIMEType() string {
	return MIMETypeWAV
}

// NewReader returns a reader over the file contents
func (c *Container) NewReader() *bytes.Reader {
	return bytes.NewReader(c.data)
}

// WriteTo writes the file to w
func (c *Container) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.data)
	return int64(n), err
}

// EncodeWAV wraps raw little-endian PCM in a WAV container. The PCM bytes are copied
// unchanged; len(pcm) must be a whole number of frames for the format.
func EncodeWAV(pcm []byte, format audio.Format) (*Container, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if align := format.BlockAlign(); len(pcm)%align != 0 {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %d bytes, frame size %d", ErrMisalignedPayload, len(pcm), align)}
	}

	header, err := WAVHeader(format, len(pcm))
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, len(header)+len(pcm))
	data = append(data, header...)
	data = append(data, pcm...)

	return &Container{data: data, format: format}, nil
}

// EncodeBase64 decodes a base64 PCM payload and wraps it in a WAV container.
// It fails with *InvalidFormatError for a bad descriptor and *DecodeError for a bad payload;
// no partial container is ever returned.
func EncodeBase64(payload string, format audio.Format) (*Container, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	pcm, err := DecodeBase64(payload)
	if err != nil {
		return nil, err
	}

	return EncodeWAV(pcm, format)
}

// WAVEncoder encodes int32 samples straight to a WAV file
type WAVEncoder struct {
	pcm    Encoder
	format audio.Format
}

// NewWAV creates an encoder that produces one complete WAV file per Encode call
func NewWAV(format audio.Format) (Encoder, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	pcm, err := NewPCM(format)
	if err != nil {
		return nil, err
	}

	return &WAVEncoder{pcm: pcm, format: format}, nil
}

// Encode converts samples to PCM and prepends the WAV header
func (e *WAVEncoder) Encode(samples []int32) ([]byte, error) {
	pcm, err := e.pcm.Encode(samples)
	if err != nil {
		return nil, err
	}

	container, err := EncodeWAV(pcm, e.format)
	if err != nil {
		return nil, err
	}

	return container.data, nil
}

// Close releases resources
func (e *WAVEncoder) Close() error {
	return e.pcm.Close()
}
