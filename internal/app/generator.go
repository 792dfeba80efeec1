// ABOUTME: Pronunciation generator session
// ABOUTME: Coordinates speech requests, WAV encoding and the clip lifecycle for any front end
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/pronounce/internal/clip"
	"github.com/harperreed/pronounce/internal/speech"
	"github.com/harperreed/pronounce/pkg/audio"
	"github.com/harperreed/pronounce/pkg/audio/encode"
)

// User-facing messages
const (
	MsgEmptyText      = "Please enter some text."
	MsgGenerateFailed = "Failed to generate audio. Please try again."
)

var (
	// ErrEmptyText means the input was blank after trimming
	ErrEmptyText = errors.New("empty text")

	// ErrBusy means a generation is already in flight
	ErrBusy = errors.New("generation already in progress")
)

// Config holds generator configuration
type Config struct {
	Speech speech.Client
	Store  *clip.Store
	Format audio.Format
}

// State is an immutable view of the session
type State struct {
	Text    string
	Loading bool
	Err     error
	Clip    *clip.Clip
}

// Message returns the text a front end shows for the current error, or ""
func (s State) Message() string {
	return UserMessage(s.Err)
}

// Generator is the session behind every front end. It is safe for concurrent use.
type Generator struct {
	config Config

	mu    sync.Mutex
	state State
}

// New creates a generator
func New(config Config) (*Generator, error) {
	if config.Speech == nil {
		return nil, fmt.Errorf("speech client is required")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("clip store is required")
	}
	if err := config.Format.Validate(); err != nil {
		return nil, fmt.Errorf("speech format: %w", err)
	}

	return &Generator{config: config}, nil
}

// Snapshot returns the current state
func (g *Generator) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Generate turns text into a saved clip. The previous clip is released first; on
// failure no clip remains and the error is kept in the state.
func (g *Generator) Generate(ctx context.Context, text string) (*clip.Clip, error) {
	if strings.TrimSpace(text) == "" {
		g.mu.Lock()
		g.state.Err = ErrEmptyText
		g.mu.Unlock()
		return nil, ErrEmptyText
	}

	g.mu.Lock()
	if g.state.Loading {
		g.mu.Unlock()
		return nil, ErrBusy
	}
	previous := g.state.Clip
	g.state = State{Text: text, Loading: true}
	g.mu.Unlock()

	if err := g.config.Store.Release(previous); err != nil {
		log.Printf("Failed to release previous clip: %v", err)
	}

	c, err := g.generate(ctx, text)

	g.mu.Lock()
	g.state.Loading = false
	g.state.Clip = c
	g.state.Err = err
	g.mu.Unlock()

	return c, err
}

func (g *Generator) generate(ctx context.Context, text string) (*clip.Clip, error) {
	requestID := uuid.New().String()
	start := time.Now()
	log.Printf("Generating speech [%s]: %d characters", requestID, len([]rune(text)))

	payload, err := g.config.Speech.RequestSpeech(ctx, strings.TrimSpace(text))
	if err != nil {
		log.Printf("Speech request failed [%s]: %v", requestID, err)
		return nil, err
	}

	container, err := encode.EncodeBase64(payload, g.config.Format)
	if err != nil {
		log.Printf("Encoding failed [%s]: %v", requestID, err)
		return nil, err
	}

	c, err := g.config.Store.Save(container, text)
	if err != nil {
		log.Printf("Saving clip failed [%s]: %v", requestID, err)
		return nil, err
	}

	log.Printf("Speech ready [%s]: %s, %d bytes in %s", requestID, c.Filename, c.Size, time.Since(start).Round(time.Millisecond))
	return c, nil
}

// Reset releases the current clip and clears the text and error
func (g *Generator) Reset() error {
	g.mu.Lock()
	previous := g.state.Clip
	g.state.Clip = nil
	g.state.Text = ""
	g.state.Err = nil
	g.mu.Unlock()

	return g.config.Store.Release(previous)
}

// Close releases the current clip
func (g *Generator) Close() error {
	g.mu.Lock()
	previous := g.state.Clip
	g.state.Clip = nil
	g.mu.Unlock()

	return g.config.Store.Release(previous)
}

// UserMessage collapses any error into the message shown to the user
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyText):
		return MsgEmptyText
	default:
		return MsgGenerateFailed
	}
}

// IsConfigError reports whether err comes from a bad format descriptor rather than
// the payload or the network
func IsConfigError(err error) bool {
	var fmtErr *encode.InvalidFormatError
	return errors.As(err, &fmtErr)
}
