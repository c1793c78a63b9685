package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/tagger/internal/models"
	"github.com/lehigh-university-libraries/tagger/internal/providers"
	"github.com/lehigh-university-libraries/tagger/internal/storage"
)

type sessionSummary struct {
	ID         string        `json:"id"`
	Counts     models.Counts `json:"counts"`
	Processing bool          `json:"processing"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := storage.NewSession(h.cfg.WordLimit)
	h.sessionStore.Set(session)
	h.writeJSONStatus(w, http.StatusCreated, session.View())
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessionStore.GetAll()
	sessionList := make([]sessionSummary, 0, len(sessions))
	for _, session := range sessions {
		counts := session.Items.Counts()
		sessionList = append(sessionList, sessionSummary{
			ID:         session.ID,
			Counts:     counts,
			Processing: counts.Processing(),
			CreatedAt:  session.CreatedAt,
		})
	}
	h.writeJSON(w, sessionList)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, session.View())
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessionStore.Delete(r.PathValue("id")) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	wordLimit, vocabulary := session.Settings()
	request := struct {
		WordLimit  *int    `json:"word_limit"`
		Vocabulary *string `json:"vocabulary"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if request.WordLimit != nil {
		if err := providers.ValidateWordLimit(*request.WordLimit); err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		wordLimit = *request.WordLimit
	}
	if request.Vocabulary != nil {
		vocabulary = *request.Vocabulary
	}

	session.SetSettings(wordLimit, vocabulary)
	h.writeJSON(w, session.View())
}
