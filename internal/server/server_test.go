// ABOUTME: Tests for the pronunciation HTTP server
// ABOUTME: Tests the speech download endpoint, error statuses and health check
package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/harperreed/pronounce/internal/app"
	"github.com/harperreed/pronounce/internal/speech"
	"github.com/harperreed/pronounce/pkg/audio"
	"github.com/harperreed/pronounce/pkg/audio/encode"
	"github.com/youpy/go-wav"
)

type fakeSpeech struct {
	mu      sync.Mutex
	payload string
	err     error
	count   int
}

func (f *fakeSpeech) RequestSpeech(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return f.payload, f.err
}

func (f *fakeSpeech) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func newTestServer(t *testing.T, client speech.Client) *httptest.Server {
	t.Helper()

	s, err := New(Config{Name: "test", Format: audio.DefaultSpeechFormat}, client)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postSpeech(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/api/speech", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{Format: audio.DefaultSpeechFormat}, nil); err == nil {
		t.Error("New() without a speech client expected error, got nil")
	}
	if _, err := New(Config{Format: audio.Format{SampleRate: 0, Channels: 1, BitDepth: 16}}, &fakeSpeech{}); err == nil {
		t.Error("New() with invalid format expected error, got nil")
	}
}

func TestSpeechDownload(t *testing.T) {
	pcm := []byte{0, 0, 0xff, 0x7f, 0x00, 0x80, 1, 0}
	client := &fakeSpeech{payload: base64.StdEncoding.EncodeToString(pcm)}
	ts := newTestServer(t, client)

	resp := postSpeech(t, ts.URL, `{"text":"Scone please"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != encode.MIMETypeWAV {
		t.Errorf("expected Content-Type %s, got %s", encode.MIMETypeWAV, ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="pronunciation_scone.wav"` {
		t.Errorf("unexpected Content-Disposition %s", cd)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if len(body) != encode.WAVHeaderSize+len(pcm) {
		t.Errorf("expected %d bytes, got %d", encode.WAVHeaderSize+len(pcm), len(body))
	}
	if !bytes.Equal(body[encode.WAVHeaderSize:], pcm) {
		t.Error("response data differs from the PCM payload")
	}

	format, err := wav.NewReader(bytes.NewReader(body)).Format()
	if err != nil {
		t.Fatalf("go-wav could not read response: %v", err)
	}
	if format.SampleRate != 24000 || format.NumChannels != 1 || format.BitsPerSample != 16 {
		t.Errorf("unexpected format in response: %+v", format)
	}
}

func TestSpeechErrors(t *testing.T) {
	tests := []struct {
		name        string
		client      *fakeSpeech
		body        string
		wantStatus  int
		wantMessage string
		wantCalls   int
	}{
		{"blank text", &fakeSpeech{}, `{"text":"   "}`, http.StatusBadRequest, app.MsgEmptyText, 0},
		{"missing text", &fakeSpeech{}, `{}`, http.StatusBadRequest, app.MsgEmptyText, 0},
		{"invalid json", &fakeSpeech{}, `{"text":`, http.StatusBadRequest, "Invalid request body.", 0},
		{"speech failure", &fakeSpeech{err: &speech.APIError{Endpoint: "e", StatusCode: 500}}, `{"text":"hi"}`, http.StatusBadGateway, app.MsgGenerateFailed, 1},
		{"network failure", &fakeSpeech{err: &speech.NetworkError{Endpoint: "e", Err: errors.New("refused")}}, `{"text":"hi"}`, http.StatusBadGateway, app.MsgGenerateFailed, 1},
		{"bad payload", &fakeSpeech{payload: "not base64!"}, `{"text":"hi"}`, http.StatusBadGateway, app.MsgGenerateFailed, 1},
		{"misaligned payload", &fakeSpeech{payload: "AAAA"}, `{"text":"hi"}`, http.StatusBadGateway, app.MsgGenerateFailed, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.client)
			resp := postSpeech(t, ts.URL, tt.body)

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}

			var errResp errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if errResp.Error != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, errResp.Error)
			}
			if got := tt.client.calls(); got != tt.wantCalls {
				t.Errorf("expected %d speech calls, got %d", tt.wantCalls, got)
			}
		})
	}
}

func TestSpeechMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &fakeSpeech{})

	resp, err := http.Get(ts.URL + "/api/speech")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakeSpeech{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestConcurrentRequests(t *testing.T) {
	client := &fakeSpeech{payload: base64.StdEncoding.EncodeToString(make([]byte, 480))}
	s, err := New(Config{Format: audio.DefaultSpeechFormat}, client)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(ts.URL+"/api/speech", "application/json", strings.NewReader(`{"text":"tomato"}`))
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				errs <- err
				return
			}
			if resp.StatusCode != http.StatusOK || len(body) != encode.WAVHeaderSize+480 {
				errs <- errors.New("unexpected response")
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("request failed: %v", err)
	}

	stats := s.Stats()
	if stats.Requests != n || stats.Succeeded != n || stats.Failed != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
