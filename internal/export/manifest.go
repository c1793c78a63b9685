package export

import (
	"fmt"
	"io"
	"time"

	"github.com/lehigh-university-libraries/tagger/internal/models"
	"gopkg.in/yaml.v3"
)

// Meta describes the run a manifest belongs to
type Meta struct {
	Provider   string
	Model      string
	WordLimit  int
	Vocabulary string
	Generated  time.Time
}

// Manifest is the YAML review record of a collection
type Manifest struct {
	Provider   string         `yaml:"provider"`
	Model      string         `yaml:"model"`
	WordLimit  int            `yaml:"word_limit"`
	Vocabulary string         `yaml:"vocabulary,omitempty"`
	Timestamp  string         `yaml:"timestamp"`
	Items      []ManifestItem `yaml:"items"`
}

type ManifestItem struct {
	OriginalName string   `yaml:"original_name"`
	FileName     string   `yaml:"file_name,omitempty"`
	Status       string   `yaml:"status"`
	Keywords     []string `yaml:"keywords,omitempty"`
	Error        string   `yaml:"error,omitempty"`
}

// BuildManifest lists every item, successful or not, in collection order
func BuildManifest(meta Meta, items []models.Item) Manifest {
	m := Manifest{
		Provider:   meta.Provider,
		Model:      meta.Model,
		WordLimit:  meta.WordLimit,
		Vocabulary: meta.Vocabulary,
		Timestamp:  meta.Generated.UTC().Format(time.RFC3339),
		Items:      make([]ManifestItem, 0, len(items)),
	}
	for _, item := range items {
		entry := ManifestItem{
			OriginalName: item.OriginalName,
			Status:       string(item.Status.Kind()),
			Keywords:     item.Keywords,
		}
		if item.Successful() {
			entry.FileName = item.FileName()
		}
		if msg, failed := item.Status.Message(); failed {
			entry.Error = msg
		}
		m.Items = append(m.Items, entry)
	}
	return m
}

func WriteManifest(w io.Writer, meta Meta, items []models.Item) error {
	m := BuildManifest(meta, items)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&m); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return nil
}
