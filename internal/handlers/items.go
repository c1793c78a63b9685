package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lehigh-university-libraries/tagger/internal/models"
	"github.com/lehigh-university-libraries/tagger/internal/preview"
)

func (h *Handler) HandleClearItems(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	removed := session.Items.Clear()
	h.writeJSON(w, map[string]int{"removed": removed})
}

// HandleReorderItems replaces the item list with the given ids, in order.
// Items left out are removed.
func (h *Handler) HandleReorderItems(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		Order []string `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := session.Items.Reorder(request.Order); err != nil {
		switch {
		case errors.Is(err, models.ErrItemNotFound):
			h.writeError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrDuplicateID):
			h.writeError(w, err.Error(), http.StatusBadRequest)
		default:
			h.writeError(w, "Failed to reorder items: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	h.writeJSON(w, session.Items.Snapshot())
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	if !session.Items.Remove(r.PathValue("item")) {
		h.writeError(w, "Item not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEditItem applies user edits: rename, add or remove one keyword, or
// replace the keyword list
func (h *Handler) HandleEditItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	id := r.PathValue("item")

	var request struct {
		Name          *string   `json:"name"`
		AddKeyword    string    `json:"add_keyword"`
		RemoveKeyword string    `json:"remove_keyword"`
		Keywords      *[]string `json:"keywords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	found := true
	if request.Name != nil {
		found = session.Items.Rename(id, *request.Name)
	}
	if found && request.Keywords != nil {
		found = session.Items.SetKeywords(id, *request.Keywords)
	}
	if found && request.AddKeyword != "" {
		found = session.Items.AddKeyword(id, request.AddKeyword)
	}
	if found && request.RemoveKeyword != "" {
		found = session.Items.RemoveKeyword(id, request.RemoveKeyword)
	}

	item, exists := session.Items.Get(id)
	if !found || !exists {
		h.writeError(w, "Item not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, item)
}

// HandleGenerateItem runs generation for one item and answers with the
// item once the request has resolved
func (h *Handler) HandleGenerateItem(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	id := r.PathValue("item")

	// a started request runs to completion even if the client goes away
	ctx := context.WithoutCancel(r.Context())
	if _, err := h.tagger.Generate(ctx, session.Items, id, h.options(session)); err != nil {
		if errors.Is(err, models.ErrItemNotFound) {
			h.writeError(w, "Item not found", http.StatusNotFound)
			return
		}
		h.writeError(w, "Failed to generate: "+err.Error(), http.StatusInternalServerError)
		return
	}

	item, exists := session.Items.Get(id)
	if !exists {
		h.writeError(w, "Item not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, item)
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	item, exists := session.Items.Get(r.PathValue("item"))
	if !exists {
		h.writeError(w, "Item not found", http.StatusNotFound)
		return
	}

	handle, ok := item.Preview.(*preview.Handle)
	if !ok || handle == nil {
		h.writeError(w, "Preview not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", handle.ContentType())
	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeFile(w, r, handle.Path())
}
