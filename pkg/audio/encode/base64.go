// ABOUTME: Base64 payload decoding
// ABOUTME: Decodes standard padded base64 into raw PCM bytes
package encode

import "encoding/base64"

// DecodeBase64 decodes a standard (padded) base64 string. The empty string decodes
// to an empty, non-nil slice.
func DecodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return data, nil
}
