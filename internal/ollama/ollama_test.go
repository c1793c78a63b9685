package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/tagger/internal/providers"
)

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if body["format"] != "json" {
			t.Errorf("Expected json format, got %v", body["format"])
		}
		if images, ok := body["images"].([]interface{}); !ok || len(images) != 1 {
			t.Errorf("Expected one image, got %v", body["images"])
		}
		_, _ = w.Write([]byte(`{"response":"{\"filename\":\"City Lights\",\"keywords\":[\"night\",\"city\"]}"}`))
	}))
	defer server.Close()

	o := New(server.URL+"/", providers.Config{Model: "llava"})
	result, err := o.Generate(context.Background(), providers.Request{Image: []byte("img")})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Filename != "City Lights" {
		t.Errorf("Unexpected filename %q", result.Filename)
	}
}

func TestGenerateMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"I see a sunset."}`))
	}))
	defer server.Close()

	o := New(server.URL, providers.Config{Model: "llava"})
	_, err := o.Generate(context.Background(), providers.Request{Image: []byte("img")})
	if !errors.Is(err, providers.ErrMalformedResponse) {
		t.Errorf("Expected ErrMalformedResponse, got %v", err)
	}
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	o := New(server.URL, providers.Config{Model: "missing"})
	_, err := o.Generate(context.Background(), providers.Request{Image: []byte("img")})
	var statusErr *providers.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 StatusError, got %v", err)
	}
}
