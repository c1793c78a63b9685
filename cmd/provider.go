package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/tagger/internal/config"
	"github.com/lehigh-university-libraries/tagger/internal/gemini"
	"github.com/lehigh-university-libraries/tagger/internal/ollama"
	"github.com/lehigh-university-libraries/tagger/internal/openai"
	"github.com/lehigh-university-libraries/tagger/internal/providers"
	"github.com/lehigh-university-libraries/tagger/internal/tagging"
)

// loadConfig reads the environment and applies command line overrides
func loadConfig(provider, model string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if provider != "" {
		cfg.Provider = provider
	}
	if model != "" {
		switch cfg.Provider {
		case "openai":
			cfg.OpenAIModel = model
		case "ollama":
			cfg.OllamaModel = model
		default:
			cfg.GeminiModel = model
		}
	}
	return cfg, nil
}

func newProvider(cfg *config.Config) (providers.Provider, error) {
	pc := providers.Config{Model: cfg.Model(), Temperature: cfg.Temperature}
	switch cfg.Provider {
	case "gemini":
		return gemini.New(cfg.GeminiAPIKey, pc), nil
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, pc), nil
	case "ollama":
		return ollama.New(cfg.OllamaURL, pc), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// newPacer picks a token bucket when a per-minute ceiling is configured,
// otherwise the fixed pause
func newPacer(cfg *config.Config) tagging.Pacer {
	if cfg.RequestsPerMinute > 0 {
		return tagging.NewRatePacer(cfg.RequestsPerMinute)
	}
	return tagging.NewFixedPacer(cfg.Pacing, nil)
}

func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
