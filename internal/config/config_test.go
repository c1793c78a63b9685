package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TAGGER_PROVIDER", "TAGGER_WORD_LIMIT", "TAGGER_PACING", "TAGGER_MAX_UPLOAD_BYTES", "PORT", "GEMINI_MODEL"} {
		// Setenv restores the original value when the test ends
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.WordLimit != 10 {
		t.Errorf("Expected word limit 10, got %d", cfg.WordLimit)
	}
	if cfg.Pacing != 1100*time.Millisecond {
		t.Errorf("Expected 1100ms pacing, got %s", cfg.Pacing)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("Expected 10MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.Model() != "gemini-2.0-flash" {
		t.Errorf("Unexpected default model %q", cfg.Model())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TAGGER_PROVIDER", "ollama")
	t.Setenv("OLLAMA_MODEL", "llava")
	t.Setenv("TAGGER_WORD_LIMIT", "4")
	t.Setenv("TAGGER_PACING", "2s")
	t.Setenv("TAGGER_REQUESTS_PER_MINUTE", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Provider != "ollama" || cfg.Model() != "llava" {
		t.Errorf("Unexpected provider %s/%s", cfg.Provider, cfg.Model())
	}
	if cfg.WordLimit != 4 || cfg.Pacing != 2*time.Second || cfg.RequestsPerMinute != 30 {
		t.Errorf("Unexpected settings %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TAGGER_WORD_LIMIT", "ten")
	if _, err := Load(); err == nil {
		t.Error("Expected error for non-numeric word limit")
	}
}

func TestMaxRequestsPerMinuteKeepsMinPacing(t *testing.T) {
	if MaxRequestsPerMinute != 54 {
		t.Errorf("Expected 54, got %d", MaxRequestsPerMinute)
	}
	if spacing := time.Minute / time.Duration(MaxRequestsPerMinute); spacing < MinPacing {
		t.Errorf("Expected spacing of at least %s, got %s", MinPacing, spacing)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Provider: "gemini", WordLimit: 10, Pacing: MinPacing, MaxUploadBytes: 1}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"word limit too small", func(c *Config) { c.WordLimit = 0 }, true},
		{"word limit too large", func(c *Config) { c.WordLimit = 21 }, true},
		{"unknown provider", func(c *Config) { c.Provider = "claude" }, true},
		{"negative pacing", func(c *Config) { c.Pacing = -time.Second }, true},
		{"pacing below the minimum", func(c *Config) { c.Pacing = time.Second }, true},
		{"slower pacing", func(c *Config) { c.Pacing = 3 * time.Second }, false},
		{"negative rate", func(c *Config) { c.RequestsPerMinute = -1 }, true},
		{"rate at the ceiling", func(c *Config) { c.RequestsPerMinute = MaxRequestsPerMinute }, false},
		{"rate above the ceiling", func(c *Config) { c.RequestsPerMinute = MaxRequestsPerMinute + 1 }, true},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
