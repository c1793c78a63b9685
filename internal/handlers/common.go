package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/lehigh-university-libraries/tagger/internal/config"
	"github.com/lehigh-university-libraries/tagger/internal/images"
	"github.com/lehigh-university-libraries/tagger/internal/preview"
	"github.com/lehigh-university-libraries/tagger/internal/storage"
	"github.com/lehigh-university-libraries/tagger/internal/tagging"
)

type Handler struct {
	sessionStore *storage.SessionStore
	tagger       *tagging.Service
	previews     *preview.Store
	fetcher      *images.Fetcher
	cfg          *config.Config

	// background batch runs live as long as ctx
	ctx     context.Context
	batches sync.WaitGroup
}

func New(ctx context.Context, cfg *config.Config, tagger *tagging.Service, previews *preview.Store) *Handler {
	return &Handler{
		sessionStore: storage.New(),
		tagger:       tagger,
		previews:     previews,
		fetcher:      images.NewFetcher(cfg.MaxUploadBytes),
		cfg:          cfg,
		ctx:          ctx,
	}
}

// Close waits for running batches to stop, then drops every session and
// releases the previews they held
func (h *Handler) Close() {
	h.batches.Wait()
	h.sessionStore.Close()
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug(message, "code", code)
	}
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*storage.Session, bool) {
	session, exists := h.sessionStore.Get(r.PathValue("id"))
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (h *Handler) options(session *storage.Session) tagging.Options {
	wordLimit, vocabulary := session.Settings()
	return tagging.Options{WordLimit: wordLimit, Vocabulary: vocabulary}
}
