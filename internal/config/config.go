// ABOUTME: Application configuration
// ABOUTME: Merges defaults, .env, environment variables and CLI flags
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/harperreed/pronounce/internal/speech"
	"github.com/harperreed/pronounce/pkg/audio"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultModel      = "gemini-2.5-flash-preview-tts"
	DefaultVoice      = "Kore"
	DefaultPrompt     = "Say the following in a clear British English (UK) accent: "
	DefaultTimeout    = 90 * time.Second
	DefaultRateLimit  = 1.0
	DefaultMaxRetries = 2
)

// ErrMissingAPIKey is returned by Validate when no key was configured
var ErrMissingAPIKey = errors.New("missing API key (set GEMINI_API_KEY)")

// Config holds application-wide configuration
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Voice      string
	Prompt     string
	Timeout    time.Duration
	RateLimit  float64 // requests per second
	MaxRetries int

	// Directory clips are saved to with their download names
	OutputDir string

	// Format the speech API returns its PCM in
	Format audio.Format
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Model:      DefaultModel,
		Voice:      DefaultVoice,
		Prompt:     DefaultPrompt,
		Timeout:    DefaultTimeout,
		RateLimit:  DefaultRateLimit,
		MaxRetries: DefaultMaxRetries,
		OutputDir:  ".",
		Format:     audio.DefaultSpeechFormat,
	}
}

// Load reads a .env file (if present) and applies environment variables over the defaults
func Load(envFiles ...string) (Config, error) {
	// A missing .env is not an error
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv applies environment lookups over the defaults
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	cfg.APIKey = getenv("GEMINI_API_KEY")
	if cfg.APIKey == "" {
		cfg.APIKey = getenv("API_KEY")
	}

	setString(&cfg.BaseURL, getenv("PRONOUNCE_BASE_URL"))
	setString(&cfg.Model, getenv("PRONOUNCE_MODEL"))
	setString(&cfg.Voice, getenv("PRONOUNCE_VOICE"))
	setString(&cfg.Prompt, getenv("PRONOUNCE_PROMPT"))
	setString(&cfg.OutputDir, getenv("PRONOUNCE_OUTPUT_DIR"))

	ints := []struct {
		key string
		dst *int
	}{
		{"PRONOUNCE_SAMPLE_RATE", &cfg.Format.SampleRate},
		{"PRONOUNCE_CHANNELS", &cfg.Format.Channels},
		{"PRONOUNCE_BIT_DEPTH", &cfg.Format.BitDepth},
		{"PRONOUNCE_MAX_RETRIES", &cfg.MaxRetries},
	}
	for _, v := range ints {
		raw := getenv(v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", v.key, raw, err)
		}
		*v.dst = n
	}

	if raw := getenv("PRONOUNCE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PRONOUNCE_TIMEOUT %q: %w", raw, err)
		}
		cfg.Timeout = d
	}

	if raw := getenv("PRONOUNCE_RATE_LIMIT"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PRONOUNCE_RATE_LIMIT %q: %w", raw, err)
		}
		cfg.RateLimit = r
	}

	return cfg, nil
}

// RegisterFlags binds flags that override the loaded values. Call before flag.Parse.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Model, "model", c.Model, "Speech model name")
	fs.StringVar(&c.Voice, "voice", c.Voice, "Prebuilt voice name")
	fs.StringVar(&c.OutputDir, "out", c.OutputDir, "Directory downloaded clips are saved to")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Speech request timeout")
	fs.IntVar(&c.Format.SampleRate, "sample-rate", c.Format.SampleRate, "Sample rate of the returned PCM")
	fs.IntVar(&c.Format.Channels, "channels", c.Format.Channels, "Channel count of the returned PCM")
	fs.IntVar(&c.Format.BitDepth, "bit-depth", c.Format.BitDepth, "Bits per sample of the returned PCM")
}

// Validate checks the configuration is usable
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if err := c.Format.Validate(); err != nil {
		return fmt.Errorf("speech format: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.RateLimit)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

// ClipDir returns the scratch directory generated clips live in until released
func (c Config) ClipDir() string {
	return filepath.Join(os.TempDir(), "pronounce-clips")
}

// SpeechConfig returns the settings for the Gemini speech client
func (c Config) SpeechConfig() speech.GeminiConfig {
	return speech.GeminiConfig{
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		Model:      c.Model,
		Voice:      c.Voice,
		Prompt:     c.Prompt,
		Timeout:    c.Timeout,
		RateLimit:  c.RateLimit,
		MaxRetries: c.MaxRetries,
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
