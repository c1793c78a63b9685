package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/tagger/internal/config"
	"github.com/lehigh-university-libraries/tagger/internal/providers"
	"github.com/lehigh-university-libraries/tagger/internal/tagging"
)

type scriptedProvider struct {
	replies map[int]*providers.Result
	calls   int
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-1" }

func (p *scriptedProvider) Generate(ctx context.Context, req providers.Request) (*providers.Result, error) {
	p.calls++
	if r, ok := p.replies[p.calls]; ok {
		return r, nil
	}
	return nil, errors.New("429 Too Many Requests")
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRunProcess(t *testing.T) {
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "1.png"), 4, 4)
	writePNG(t, filepath.Join(in, "2.png"), 5, 5)
	writePNG(t, filepath.Join(in, "3.png"), 6, 6)
	if err := os.WriteFile(filepath.Join(in, "readme.txt"), []byte("skip me"), 0644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(t.TempDir(), "out")

	llm := &scriptedProvider{replies: map[int]*providers.Result{
		1: {Filename: "Sunset Walk", Keywords: []string{"sunset", "beach"}},
		2: {Filename: "City Lights", Keywords: []string{"night", "city"}},
	}}
	cfg := &config.Config{WordLimit: 10, MaxUploadBytes: 1 << 20}
	opts := processOptions{output: outDir, csv: true, manifest: true, applyKeywords: "travel"}

	var out bytes.Buffer
	err := runProcess(context.Background(), cfg, llm, tagging.NewFixedPacer(0, nil), opts, []string{in}, &out)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if llm.calls != 3 {
		t.Errorf("Expected 3 provider calls, got %d", llm.calls)
	}

	csvFiles, _ := filepath.Glob(filepath.Join(outDir, "image_keywords_*.csv"))
	if len(csvFiles) != 1 {
		t.Fatalf("Expected one csv, got %v", csvFiles)
	}
	data, err := os.ReadFile(csvFiles[0])
	if err != nil {
		t.Fatal(err)
	}
	want := `"New File Name","Keywords"
"city-lights.png","city, night, travel"
"sunset-walk.png","beach, sunset, travel"
`
	if string(data) != want {
		t.Errorf("Unexpected csv:\n%s", data)
	}

	manifests, _ := filepath.Glob(filepath.Join(outDir, "image_manifest_*.yaml"))
	if len(manifests) != 1 {
		t.Errorf("Expected one manifest, got %v", manifests)
	}

	summary := out.String()
	if !strings.Contains(summary, "2 named, 1 failed") {
		t.Errorf("Unexpected summary:\n%s", summary)
	}
	if !strings.Contains(summary, tagging.RateLimitMessage) {
		t.Errorf("Expected rate limit message in summary:\n%s", summary)
	}
}

func TestRunProcessNoImages(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{WordLimit: 10, MaxUploadBytes: 1 << 20}
	err := runProcess(context.Background(), cfg, &scriptedProvider{}, tagging.NewFixedPacer(0, nil), processOptions{output: dir}, []string{dir}, &bytes.Buffer{})
	if err == nil {
		t.Error("Expected error when there is nothing to process")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TAGGER_PROVIDER", "gemini")
	cfg, err := loadConfig("openai", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Provider != "openai" || cfg.Model() != "gpt-4o-mini" {
		t.Errorf("Unexpected overrides %s/%s", cfg.Provider, cfg.Model())
	}

	llm, err := newProvider(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if llm.Name() != "openai" {
		t.Errorf("Expected openai provider, got %s", llm.Name())
	}

	cfg.Provider = "nope"
	if _, err := newProvider(cfg); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
