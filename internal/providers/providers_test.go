package providers

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Request{WordLimit: 4, Vocabulary: "travel, beach"})
	if !strings.Contains(prompt, "at most 4 words") {
		t.Error("Expected the word limit in the prompt")
	}
	if !strings.Contains(prompt, "travel, beach") {
		t.Error("Expected the vocabulary in the prompt")
	}

	prompt = BuildPrompt(Request{})
	if !strings.Contains(prompt, "at most 10 words") {
		t.Error("Expected the default word limit")
	}
	if strings.Contains(prompt, "vocabulary") {
		t.Error("Vocabulary section must be omitted when empty")
	}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		wantFilename string
		wantKeywords int
		wantErr      bool
	}{
		{
			name:         "plain JSON",
			response:     `{"filename":"Sunset Walk","keywords":["beach","sunset"]}`,
			wantFilename: "Sunset Walk",
			wantKeywords: 2,
		},
		{
			name:         "fenced JSON",
			response:     "```json\n{\"filename\":\"City Lights\",\"keywords\":[\"night\"]}\n```",
			wantFilename: "City Lights",
			wantKeywords: 1,
		},
		{
			name:         "missing keywords becomes empty list",
			response:     `{"filename":"Only Name"}`,
			wantFilename: "Only Name",
			wantKeywords: 0,
		},
		{
			name:     "not JSON",
			response: "Here is a nice name: sunset",
			wantErr:  true,
		},
		{
			name:     "empty object",
			response: `{}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseResult(tt.response)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("Expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Filename != tt.wantFilename {
				t.Errorf("Expected filename %q, got %q", tt.wantFilename, result.Filename)
			}
			if len(result.Keywords) != tt.wantKeywords {
				t.Errorf("Expected %d keywords, got %v", tt.wantKeywords, result.Keywords)
			}
		})
	}
}

func TestValidateWordLimit(t *testing.T) {
	for _, n := range []int{1, 10, 20} {
		if err := ValidateWordLimit(n); err != nil {
			t.Errorf("Expected %d to be valid: %v", n, err)
		}
	}
	for _, n := range []int{0, -1, 21} {
		if err := ValidateWordLimit(n); err == nil {
			t.Errorf("Expected %d to be rejected", n)
		}
	}
}

func TestStatusError(t *testing.T) {
	err := &StatusError{Provider: "openai", StatusCode: 429, Body: "slow down"}
	if err.Error() != "openai API returned status 429: slow down" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
