package handlers

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/tagger/internal/images"
	"github.com/lehigh-university-libraries/tagger/internal/models"
)

// newItem turns a verified image into a pending item with a preview
func (h *Handler) newItem(sessionID string, src *images.Source) models.Item {
	item := models.NewItem(src.Name, src.Ext, src.MIMEType, src.Data)

	handle, err := h.previews.Create(item.ID, src.Ext, src.MIMEType, src.Data)
	if err != nil {
		slog.Warn("Failed to create preview", "id", item.ID, "file", src.Name, "error", err)
		return item
	}
	item.Preview = handle
	item.PreviewURL = fmt.Sprintf("/api/sessions/%s/items/%s/preview", sessionID, item.ID)
	return item
}
