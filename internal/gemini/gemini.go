package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/tagger/internal/providers"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey string
	config providers.Config
	opts   []option.ClientOption
}

// New returns a new Gemini provider
func New(apiKey string, config providers.Config, opts ...option.ClientOption) *Gemini {
	return &Gemini{apiKey: apiKey, config: config, opts: opts}
}

func (g *Gemini) Name() string  { return "gemini" }
func (g *Gemini) Model() string { return g.config.Model }

var resultSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"filename": {Type: genai.TypeString},
		"keywords": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"filename", "keywords"},
}

// Generate asks Gemini for a filename and keywords for the image
func (g *Gemini) Generate(ctx context.Context, req providers.Request) (*providers.Result, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY environment variable not set", providers.ErrNotConfigured)
	}

	opts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.config.Model)
	model.SetTemperature(float32(g.config.Temperature))
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = resultSchema

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(imageFormat(req.MIMEType), req.Image),
		genai.Text(providers.BuildPrompt(req)),
	)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &providers.StatusError{Provider: g.Name(), StatusCode: gerr.Code, Body: gerr.Message}
		}
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return providers.ParseResult(text)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned from Gemini", providers.ErrMalformedResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content returned from Gemini", providers.ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: unexpected response format from Gemini", providers.ErrMalformedResponse)
	}
	return sb.String(), nil
}

// imageFormat maps a MIME type onto the short format genai.ImageData expects
func imageFormat(mimeType string) string {
	format, ok := strings.CutPrefix(mimeType, "image/")
	if !ok || format == "" {
		return "jpeg"
	}
	return format
}
