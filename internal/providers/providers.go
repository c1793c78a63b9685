package providers

import (
	"context"
	"errors"
	"fmt"
)

const (
	DefaultWordLimit = 10
	MinWordLimit     = 1
	MaxWordLimit     = 20
)

var (
	// ErrNotConfigured means the provider cannot be used, e.g. a missing credential
	ErrNotConfigured = errors.New("provider not configured")
	// ErrMalformedResponse means the provider answered with something that is not a result
	ErrMalformedResponse = errors.New("malformed response")
)

// Config represents the configuration for an LLM provider
type Config struct {
	Model       string
	Temperature float64
}

// Request is one image to name and tag
type Request struct {
	Image      []byte
	MIMEType   string
	WordLimit  int
	Vocabulary string
}

// Result is the structured answer of a provider
type Result struct {
	Filename string   `json:"filename"`
	Keywords []string `json:"keywords"`
}

// Provider defines the interface for a multimodal LLM provider
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, req Request) (*Result, error)
}

// StatusError is a non-success answer from a provider API
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// ValidateWordLimit checks n against the range offered to users
func ValidateWordLimit(n int) error {
	if n < MinWordLimit || n > MaxWordLimit {
		return fmt.Errorf("word limit must be between %d and %d, got %d", MinWordLimit, MaxWordLimit, n)
	}
	return nil
}
