package providers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// BuildPrompt generates the naming and tagging prompt for a request
func BuildPrompt(req Request) string {
	wordLimit := req.WordLimit
	if wordLimit <= 0 {
		wordLimit = DefaultWordLimit
	}

	var vocabulary string
	if v := strings.TrimSpace(req.Vocabulary); v != "" {
		vocabulary = fmt.Sprintf(`
3. The user maintains this keyword vocabulary: %s
   Prefer these exact keywords whenever they apply to the image, and add others only when needed.
`, v)
	}

	return fmt.Sprintf(`You are a digital asset librarian who names and tags photographs for a searchable image library.

Look carefully at the image and produce:

1. A descriptive filename of at most %d words that identifies the main subject, setting, and any notable detail.
   - Plain English words separated by spaces
   - No file extension, dates, or camera jargon
2. A list of 5 to 15 keywords that someone might search for to find this image.
   - Lowercase single words or short phrases
   - No duplicates
%s
OUTPUT FORMAT:
Respond with ONLY a JSON object in the following format:

{
  "filename": "descriptive words here",
  "keywords": ["keyword", "another keyword"]
}`, wordLimit, vocabulary)
}

// ParseResult decodes a provider answer. Markdown code fences around the
// JSON are tolerated.
func ParseResult(response string) (*Result, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var result Result
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		slog.Warn("Failed to parse JSON response", "error", err, "length", len(response))
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if strings.TrimSpace(result.Filename) == "" && len(result.Keywords) == 0 {
		return nil, fmt.Errorf("%w: no filename or keywords", ErrMalformedResponse)
	}

	if result.Keywords == nil {
		result.Keywords = []string{}
	}
	return &result, nil
}
