package export

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/lehigh-university-libraries/tagger/internal/models"
)

var writeClipboard = clipboard.WriteAll

// CopyToClipboard puts ClipboardText on the system clipboard and returns it
func CopyToClipboard(items []models.Item) (string, error) {
	text := ClipboardText(items)
	if err := writeClipboard(text); err != nil {
		return text, fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return text, nil
}
