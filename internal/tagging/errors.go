package tagging

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/tagger/internal/providers"
)

// RateLimitMessage is shown when the AI service asks us to slow down
const RateLimitMessage = "Rate limit reached. Please wait a minute and try again."

// ErrBatchInProgress is returned when a batch is already running over the same items
var ErrBatchInProgress = errors.New("batch already in progress")

// 429 counts only as a status token, never as bare digits
var rateLimitStatus = regexp.MustCompile(`\b(status|error|code|http)[ :=/]*429\b`)

var rateLimitMarkers = []string{
	"rate limit",
	"ratelimit",
	"too many requests",
	"quota",
	"resource_exhausted",
	"resource exhausted",
}

// IsRateLimited reports whether err signals a request-rate ceiling
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *providers.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	text := strings.ToLower(err.Error())
	if rateLimitStatus.MatchString(text) {
		return true
	}
	for _, marker := range rateLimitMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// FailureMessage turns a generation error into the message stored on the item
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, providers.ErrNotConfigured):
		return "AI service is not configured: " + notConfiguredDetail(err)
	case IsRateLimited(err):
		return RateLimitMessage
	case errors.Is(err, providers.ErrMalformedResponse):
		return "Failed to generate name and keywords: the AI response could not be read"
	default:
		return "Failed to generate name and keywords: " + err.Error()
	}
}

// notConfiguredDetail drops the sentinel text so it is not repeated after the
// user-facing prefix
func notConfiguredDetail(err error) string {
	text := err.Error()
	marker := providers.ErrNotConfigured.Error()
	if i := strings.Index(text, marker); i >= 0 {
		text = strings.TrimLeft(text[i+len(marker):], ": ")
	}
	if text == "" {
		return "check the provider credentials"
	}
	return text
}
