package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/tagger/internal/providers"
)

const DefaultURL = "http://localhost:11434"

// Ollama is a provider for a local Ollama vision model
type Ollama struct {
	url        string
	config     providers.Config
	httpClient *http.Client
}

// New returns a new Ollama provider
func New(url string, config providers.Config) *Ollama {
	if url == "" {
		url = DefaultURL
	}
	return &Ollama{
		url:    strings.TrimSuffix(url, "/"),
		config: config,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (o *Ollama) Name() string  { return "ollama" }
func (o *Ollama) Model() string { return o.config.Model }

// Generate asks Ollama for a filename and keywords for the image
func (o *Ollama) Generate(ctx context.Context, req providers.Request) (*providers.Result, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  o.config.Model,
		"prompt": providers.BuildPrompt(req),
		"images": []string{base64.StdEncoding.EncodeToString(req.Image)},
		"stream": false,
		"format": "json",
		"options": map[string]interface{}{
			"temperature": o.config.Temperature,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &providers.StatusError{Provider: o.Name(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: failed to decode Ollama response: %v", providers.ErrMalformedResponse, err)
	}

	return providers.ParseResult(response.Response)
}
