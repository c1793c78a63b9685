package handlers

import (
	"log/slog"
	"net/http"
)

// Routes registers the JSON API
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", h.HandleCreateSession)
	mux.HandleFunc("GET /api/sessions", h.HandleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", h.HandleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.HandleDeleteSession)
	mux.HandleFunc("PUT /api/sessions/{id}/settings", h.HandleUpdateSettings)

	mux.HandleFunc("POST /api/sessions/{id}/items", h.HandleUpload)
	mux.HandleFunc("DELETE /api/sessions/{id}/items", h.HandleClearItems)
	mux.HandleFunc("PUT /api/sessions/{id}/items", h.HandleReorderItems)
	mux.HandleFunc("DELETE /api/sessions/{id}/items/{item}", h.HandleRemoveItem)
	mux.HandleFunc("PATCH /api/sessions/{id}/items/{item}", h.HandleEditItem)
	mux.HandleFunc("POST /api/sessions/{id}/items/{item}/generate", h.HandleGenerateItem)
	mux.HandleFunc("GET /api/sessions/{id}/items/{item}/preview", h.HandlePreview)

	mux.HandleFunc("POST /api/sessions/{id}/batch", h.HandleBatch)
	mux.HandleFunc("POST /api/sessions/{id}/keywords", h.HandleApplyKeywords)
	mux.HandleFunc("GET /api/sessions/{id}/vocabulary", h.HandleVocabulary)
	mux.HandleFunc("GET /api/sessions/{id}/export/{format}", h.HandleExport)

	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	return mux
}
