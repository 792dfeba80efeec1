// ABOUTME: Gemini text-to-speech client
// ABOUTME: Requests base64 PCM speech with rate limiting and retry on transient failures
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/harperreed/pronounce/internal/version"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of an error response is kept
const maxErrorBody = 4096

// Client turns text into base64-encoded PCM audio
type Client interface {
	RequestSpeech(ctx context.Context, text string) (string, error)
}

// GeminiConfig holds Gemini client settings
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Voice      string
	Prompt     string // prepended to the user's text
	Timeout    time.Duration
	RateLimit  float64 // requests per second
	MaxRetries int
	HTTPClient *http.Client
}

// Gemini implements Client against the Gemini generateContent endpoint
type Gemini struct {
	config     GeminiConfig
	client     *http.Client
	limiter    *rate.Limiter
	newBackOff func() backoff.BackOff
}

// NewGemini creates a Gemini speech client
func NewGemini(config GeminiConfig) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("gemini base url is required")
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	return &Gemini{
		config:     config,
		client:     client,
		limiter:    rate.NewLimiter(limit, 1),
		newBackOff: defaultBackOff,
	}, nil
}

func defaultBackOff() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// endpoint returns the generateContent URL for the configured model
func (g *Gemini) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(g.config.BaseURL, "/"), g.config.Model)
}

// RequestSpeech sends text to the API and returns the base64 PCM payload
func (g *Gemini) RequestSpeech(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: g.config.Prompt + text}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: g.config.Voice},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	// Adopt the caller's deadline or fall back to the configured timeout
	if _, ok := ctx.Deadline(); !ok && g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	var retries uint64
	if g.config.MaxRetries > 0 {
		retries = uint64(g.config.MaxRetries)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(g.newBackOff(), retries), ctx)

	var payload string
	attempt := 0
	operation := func() error {
		attempt++
		if err := g.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(&NetworkError{Endpoint: g.endpoint(), Err: err})
		}

		data, err := g.do(ctx, body)
		if err != nil {
			if retryable(err) {
				log.Printf("Speech request attempt %d failed: %v", attempt, err)
				return err
			}
			return backoff.Permanent(err)
		}
		payload = data
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		var apiErr *APIError
		var netErr *NetworkError
		if !errors.As(err, &apiErr) && !errors.As(err, &netErr) {
			// Context expiry between attempts surfaces bare
			err = &NetworkError{Endpoint: g.endpoint(), Err: err}
		}
		return "", err
	}
	return payload, nil
}

// do performs a single request
func (g *Gemini) do(ctx context.Context, body []byte) (string, error) {
	endpoint := g.endpoint()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid response body: %w", err)}
	}

	for _, candidate := range decoded.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData.Data, nil
			}
		}
	}

	return "", &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: ErrNoAudio}
}

// retryable reports whether err is a transient failure worth another attempt
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return false
}
