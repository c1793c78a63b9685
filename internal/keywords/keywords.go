// Package keywords holds the pure keyword set operations: normalization,
// per-item edits, the vocabulary union and bulk application.
package keywords

import (
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/tagger/internal/models"
)

// Normalize returns a sorted copy of kw with exact duplicates and blank entries removed.
// Sorting is byte-wise, so it is case-sensitive.
func Normalize(kw []string) []string {
	out := make([]string, 0, len(kw))
	for _, k := range kw {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out = append(out, k)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Add returns kw with keyword added unless already present
func Add(kw []string, keyword string) []string {
	return Normalize(append(slices.Clone(kw), keyword))
}

// Remove returns kw without keyword
func Remove(kw []string, keyword string) []string {
	out := make([]string, 0, len(kw))
	for _, k := range kw {
		if k != keyword {
			out = append(out, k)
		}
	}
	return Normalize(out)
}

// Parse splits a comma separated vocabulary string into trimmed, non-empty keywords
func Parse(vocabulary string) []string {
	var out []string
	for _, part := range strings.Split(vocabulary, ",") {
		if k := strings.TrimSpace(part); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Vocabulary is the union of the user's declared vocabulary and every item
// keyword, deduplicated and sorted. It backs the "apply to all" picker.
func Vocabulary(userVocabulary string, items []models.Item) []string {
	all := Parse(userVocabulary)
	for _, item := range items {
		all = append(all, item.Keywords...)
	}
	return Normalize(all)
}

// ApplyToSuccessful adds every chosen keyword to each successful item.
// It returns the updated items and how many of them changed.
func ApplyToSuccessful(items []models.Item, chosen []string) ([]models.Item, int) {
	chosen = Normalize(chosen)
	out := make([]models.Item, len(items))
	changed := 0
	for i, item := range items {
		out[i] = item
		if len(chosen) == 0 || !item.Successful() {
			continue
		}
		merged := Normalize(append(slices.Clone(item.Keywords), chosen...))
		if !slices.Equal(merged, item.Keywords) {
			updated := item.Clone()
			updated.Keywords = merged
			out[i] = updated
			changed++
		}
	}
	return out, changed
}
