// Package config maps the process environment onto tagger settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/lehigh-university-libraries/tagger/internal/providers"
)

// Providers lists the supported generation backends
var Providers = []string{"gemini", "openai", "ollama"}

const (
	// MinPacing is the shortest allowed pause between two batch requests
	MinPacing = 1100 * time.Millisecond
	// MaxRequestsPerMinute is the highest token-bucket rate that still keeps MinPacing
	MaxRequestsPerMinute = int(time.Minute / MinPacing)
)

type Config struct {
	Provider string `envconfig:"TAGGER_PROVIDER" default:"gemini"`

	GeminiAPIKey  string  `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string  `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	OpenAIAPIKey  string  `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string  `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	OpenAIBaseURL string  `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OllamaURL     string  `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel   string  `envconfig:"OLLAMA_MODEL" default:"mistral-small3.2:24b"`
	Temperature   float64 `envconfig:"TAGGER_TEMPERATURE" default:"0.2"`

	WordLimit         int           `envconfig:"TAGGER_WORD_LIMIT" default:"10"`
	Pacing            time.Duration `envconfig:"TAGGER_PACING" default:"1100ms"`
	RequestsPerMinute int           `envconfig:"TAGGER_REQUESTS_PER_MINUTE" default:"0"`

	MaxUploadBytes int64  `envconfig:"TAGGER_MAX_UPLOAD_BYTES" default:"10485760"`
	PreviewDir     string `envconfig:"TAGGER_PREVIEW_DIR"`
	PreviewSize    int    `envconfig:"TAGGER_PREVIEW_SIZE" default:"256"`

	Port string `envconfig:"PORT" default:"8888"`
}

// Load reads the environment, applying defaults for anything unset
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := providers.ValidateWordLimit(c.WordLimit); err != nil {
		return err
	}
	if !c.knownProvider() {
		return fmt.Errorf("unknown provider %q (use %s)", c.Provider, strings.Join(Providers, ", "))
	}
	if c.Pacing < MinPacing {
		return fmt.Errorf("pacing must be at least %s, got %s", MinPacing, c.Pacing)
	}
	if c.RequestsPerMinute < 0 || c.RequestsPerMinute > MaxRequestsPerMinute {
		return fmt.Errorf("requests per minute must be between 0 and %d, got %d", MaxRequestsPerMinute, c.RequestsPerMinute)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// Model returns the configured model for the selected provider
func (c *Config) Model() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIModel
	case "ollama":
		return c.OllamaModel
	default:
		return c.GeminiModel
	}
}

func (c *Config) knownProvider() bool {
	for _, p := range Providers {
		if c.Provider == p {
			return true
		}
	}
	return false
}
