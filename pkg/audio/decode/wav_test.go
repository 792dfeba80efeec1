// ABOUTME: Tests for the WAV container parser
// ABOUTME: Tests round trips through the encoder, extra chunks and malformed files
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/harperreed/pronounce/pkg/audio"
	"github.com/harperreed/pronounce/pkg/audio/encode"
)

func TestParseWAVRoundTrip(t *testing.T) {
	formats := []audio.Format{
		audio.DefaultSpeechFormat,
		{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 24},
	}

	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			pcm := bytes.Repeat([]byte{1, 2, 3, 4, 5, 6}, 10)
			container, err := encode.EncodeWAV(pcm, format)
			if err != nil {
				t.Fatalf("EncodeWAV() failed: %v", err)
			}

			file, err := ParseWAV(container.Bytes())
			if err != nil {
				t.Fatalf("ParseWAV() failed: %v", err)
			}

			if file.Format != format {
				t.Errorf("Format = %+v, want %+v", file.Format, format)
			}
			if int(file.DataSize) != len(pcm) {
				t.Errorf("DataSize = %d, want %d", file.DataSize, len(pcm))
			}
			if int(file.ChunkSize) != 36+len(pcm) {
				t.Errorf("ChunkSize = %d, want %d", file.ChunkSize, 36+len(pcm))
			}
			if !bytes.Equal(file.PCM, pcm) {
				t.Errorf("PCM payload differs from input")
			}
		})
	}
}

func TestParseWAVEmptyData(t *testing.T) {
	container, err := encode.EncodeBase64("", audio.DefaultSpeechFormat)
	if err != nil {
		t.Fatalf("EncodeBase64() failed: %v", err)
	}

	file, err := ParseWAV(container.Bytes())
	if err != nil {
		t.Fatalf("ParseWAV() failed: %v", err)
	}
	if file.DataSize != 0 || len(file.PCM) != 0 {
		t.Errorf("expected empty payload, got %d bytes", len(file.PCM))
	}
	if file.ChunkSize != 36 {
		t.Errorf("ChunkSize = %d, want 36", file.ChunkSize)
	}
}

func TestParseWAVSkipsExtraChunks(t *testing.T) {
	container, err := encode.EncodeWAV([]byte{9, 0, 8, 0}, audio.DefaultSpeechFormat)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}
	data := container.Bytes()

	// Splice an odd-sized LIST chunk (plus pad byte) between fmt and data
	list := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0}
	spliced := append([]byte{}, data[:36]...)
	spliced = append(spliced, list...)
	spliced = append(spliced, data[36:]...)
	binary.LittleEndian.PutUint32(spliced[4:8], uint32(len(spliced)-8))

	file, err := ParseWAV(spliced)
	if err != nil {
		t.Fatalf("ParseWAV() failed: %v", err)
	}
	if !bytes.Equal(file.PCM, []byte{9, 0, 8, 0}) {
		t.Errorf("PCM = %x, want 09000800", file.PCM)
	}
}

func TestParseWAVErrors(t *testing.T) {
	container, err := encode.EncodeWAV([]byte{1, 0, 2, 0}, audio.DefaultSpeechFormat)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}
	valid := container.Bytes()

	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte{}, valid...))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte("RIFF")},
		{"not riff", mutate(func(b []byte) []byte { copy(b, "RIFX"); return b })},
		{"not wave", mutate(func(b []byte) []byte { copy(b[8:], "AVI "); return b })},
		{"riff size too large", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[4:], 1000)
			return b
		})},
		{"not pcm", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[20:], 3)
			return b
		})},
		{"data past end", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[40:], 100)
			return b
		})},
		{"zero channels", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[22:], 0)
			return b
		})},
		{"zero sample rate", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[24:], 0)
			return b
		})},
		{"odd bits per sample", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[34:], 12)
			return b
		})},
		{"no data chunk", valid[:36]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseWAV(tt.data)
			if file != nil {
				t.Errorf("ParseWAV() returned a file for invalid input")
			}
			if !errors.Is(err, ErrInvalidWAV) {
				t.Errorf("ParseWAV() error = %v, want ErrInvalidWAV", err)
			}
		})
	}
}
