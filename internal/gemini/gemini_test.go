package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/tagger/internal/providers"
)

func TestGenerateWithoutKey(t *testing.T) {
	g := New("", providers.Config{Model: "gemini-2.0-flash"})
	_, err := g.Generate(context.Background(), providers.Request{Image: []byte("x"), MIMEType: "image/png"})
	if !errors.Is(err, providers.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestImageFormat(t *testing.T) {
	tests := map[string]string{
		"image/png":  "png",
		"image/jpeg": "jpeg",
		"image/webp": "webp",
		"":           "jpeg",
		"text/plain": "jpeg",
	}
	for mimeType, expected := range tests {
		if got := imageFormat(mimeType); got != expected {
			t.Errorf("imageFormat(%q) = %q, expected %q", mimeType, got, expected)
		}
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text(`{"filename":"a",`),
				genai.Text(`"keywords":["b"]}`),
			}},
		}},
	}
	text, err := responseText(resp)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != `{"filename":"a","keywords":["b"]}` {
		t.Errorf("Unexpected text %q", text)
	}

	if _, err := responseText(&genai.GenerateContentResponse{}); !errors.Is(err, providers.ErrMalformedResponse) {
		t.Errorf("Expected ErrMalformedResponse, got %v", err)
	}
}
