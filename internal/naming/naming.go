// Package naming turns a proposed title into a filename token.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	whitespace = regexp.MustCompile(`[\s\p{Z}]+`)
	disallowed = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns = regexp.MustCompile(`-{2,}`)
)

// Sanitize normalizes a raw title using the current time for the fallback name
func Sanitize(raw string) string {
	return SanitizeAt(raw, time.Now())
}

// SanitizeAt lowercases raw, turns whitespace runs into hyphens, drops
// everything outside [a-z0-9-], collapses hyphen runs and trims hyphens.
// An empty result becomes image-<unix millis of now>.
func SanitizeAt(raw string, now time.Time) string {
	name := strings.ToLower(raw)
	name = whitespace.ReplaceAllString(name, "-")
	name = disallowed.ReplaceAllString(name, "")
	name = hyphenRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return Fallback(now)
	}
	return name
}

// Fallback returns the name used when a title sanitizes to nothing
func Fallback(now time.Time) string {
	return fmt.Sprintf("image-%d", now.UnixMilli())
}
