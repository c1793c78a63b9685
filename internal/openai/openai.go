package openai

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

const DefaultBaseURL = "https://api.openai.com/v1"

// OpenAI is a provider for OpenAI chat completions with image input
type OpenAI struct {
	apiKey     string
	baseURL    string
	config     providers.Config
	httpClient *http.Client
}

// New returns a new OpenAI provider. An empty baseURL uses the public API.
func New(apiKey, baseURL string, config providers.Config) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		config:  config,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (o *OpenAI) Name() string  { return "openai" }
func (o *OpenAI) Model() string { return o.config.Model }

// Generate asks OpenAI for a filename and keywords for the image
func (o *OpenAI) Generate(ctx context.Context, req providers.Request) (*providers.Result, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY environment variable not set", providers.ErrNotConfigured)
	}

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(req.Image)

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": o.config.Model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": providers.BuildPrompt(req),
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": dataURI,
						},
					},
				},
			},
		},
		"max_tokens":      500,
		"temperature":     o.config.Temperature,
		"response_format": map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &providers.StatusError{Provider: o.Name(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: failed to decode OpenAI response: %v", providers.ErrMalformedResponse, err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned from OpenAI", providers.ErrMalformedResponse)
	}

	return providers.ParseResult(response.Choices[0].Message.Content)
}
