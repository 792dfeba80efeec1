// ABOUTME: Speech client error types
// ABOUTME: NetworkError for transport failures, APIError for error responses
package speech

import (
	"errors"
	"fmt"
)

// ErrNoAudio means the API answered 200 but the response carried no audio part
var ErrNoAudio = errors.New("response contains no audio data")

// NetworkError reports a transport failure talking to the speech API
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("speech request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError reports an error status or an unusable response from the speech API
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech API %s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}

	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("speech API %s: HTTP %d: %s", e.Endpoint, e.StatusCode, body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the request could succeed
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
