package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lehigh-university-libraries/tagger/internal/keywords"
)

// HandleApplyKeywords adds keywords to every successful item. It is
// destructive, so the request must say confirm: true.
func (h *Handler) HandleApplyKeywords(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		Keywords []string `json:"keywords"`
		Confirm  bool     `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !request.Confirm {
		h.writeError(w, "Applying keywords to all items requires confirm: true", http.StatusBadRequest)
		return
	}

	changed := session.Items.ApplyKeywords(request.Keywords)
	h.writeJSON(w, map[string]int{"changed": changed})
}

func (h *Handler) HandleVocabulary(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	_, vocabulary := session.Settings()
	h.writeJSON(w, map[string][]string{
		"keywords": keywords.Vocabulary(vocabulary, session.Items.Snapshot()),
	})
}
