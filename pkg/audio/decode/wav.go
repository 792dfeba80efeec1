// ABOUTME: WAV container parser
// ABOUTME: Walks RIFF chunks to recover the PCM format and the data payload
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/harperreed/pronounce/pkg/audio"
)

// ErrInvalidWAV is wrapped by every ParseWAV failure
var ErrInvalidWAV = errors.New("invalid wav data")

const (
	riffHeaderSize  = 12 // "RIFF" + size + "WAVE"
	chunkHeaderSize = 8  // id + size
	minFmtChunkSize = 16
	audioFormatPCM  = 1
)

// WAVFile is a parsed WAV container. PCM aliases the input slice.
type WAVFile struct {
	Format    audio.Format
	ChunkSize uint32 // RIFF size field (file size - 8)
	DataSize  uint32 // "data" chunk size field
	PCM       []byte
}

// ParseWAV reads a PCM WAV file. Chunks other than "fmt " and "data" (LIST, fact, ...)
// are skipped; the file must contain both.
func ParseWAV(data []byte) (*WAVFile, error) {
	if len(data) < riffHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than a RIFF header", ErrInvalidWAV, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE identifiers", ErrInvalidWAV)
	}

	le := binary.LittleEndian
	file := &WAVFile{ChunkSize: le.Uint32(data[4:8])}
	if uint64(file.ChunkSize)+8 > uint64(len(data)) {
		return nil, fmt.Errorf("%w: RIFF size %d exceeds file length %d", ErrInvalidWAV, file.ChunkSize, len(data))
	}

	foundFmt := false
	offset := riffHeaderSize
	for offset+chunkHeaderSize <= len(data) {
		id := string(data[offset : offset+4])
		size := le.Uint32(data[offset+4 : offset+8])
		body := offset + chunkHeaderSize
		if uint64(body)+uint64(size) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: %q chunk of %d bytes runs past end of file", ErrInvalidWAV, id, size)
		}
		end := body + int(size)

		switch id {
		case "fmt ":
			if size < minFmtChunkSize {
				return nil, fmt.Errorf("%w: fmt chunk is %d bytes", ErrInvalidWAV, size)
			}
			if tag := le.Uint16(data[body:]); tag != audioFormatPCM {
				return nil, fmt.Errorf("%w: audio format %d is not PCM", ErrInvalidWAV, tag)
			}
			file.Format = audio.Format{
				Codec:      audio.CodecPCM,
				Channels:   int(le.Uint16(data[body+2:])),
				SampleRate: int(le.Uint32(data[body+4:])),
				BitDepth:   int(le.Uint16(data[body+14:])),
			}
			if err := file.Format.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
			}
			foundFmt = true

		case "data":
			if !foundFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidWAV)
			}
			file.DataSize = size
			file.PCM = data[body:end]
			return file, nil
		}

		offset = end
		// Chunks are word aligned
		if size%2 != 0 {
			offset++
		}
	}

	if !foundFmt {
		return nil, fmt.Errorf("%w: no fmt chunk", ErrInvalidWAV)
	}
	return nil, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
}
