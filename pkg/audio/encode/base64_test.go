// ABOUTME: Tests for base64 payload decoding
// ABOUTME: Tests valid payloads, the empty payload and malformed input
package encode

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeBase64(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"empty", "", []byte{}, false},
		{"three zero bytes", "AAAA", []byte{0, 0, 0}, false},
		{"one pad", "AAABAA==", []byte{0x00, 0x00, 0x01, 0x00}, false},
		{"two bytes", "AAE=", []byte{0x00, 0x01}, false},
		{"ascii", "aGVsbG8=", []byte("hello"), false},
		{"missing padding", "abc", nil, true},
		{"invalid character", "ab$d", nil, true},
		{"url alphabet", "-_-_", nil, true},
		{"excess padding", "A===", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64(tt.input)
			if tt.wantErr {
				var decErr *DecodeError
				if !errors.As(err, &decErr) {
					t.Errorf("DecodeBase64(%q) error = %v, want *DecodeError", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("DecodeBase64(%q) unexpected error = %v", tt.input, err)
			}
			if got == nil {
				t.Fatalf("DecodeBase64(%q) returned nil slice", tt.input)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeBase64(%q) = %x, want %x", tt.input, got, tt.want)
			}
		})
	}
}
