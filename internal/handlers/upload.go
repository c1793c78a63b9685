package handlers

import (
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/tagger/internal/images"
	"github.com/lehigh-university-libraries/tagger/internal/models"
	"github.com/lehigh-university-libraries/tagger/internal/storage"
)

type rejectedUpload struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type uploadResponse struct {
	Items    []models.Item    `json:"items"`
	Rejected []rejectedUpload `json:"rejected,omitempty"`
}

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	// Check if this is a JSON request with image URL
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLUpload(w, r, session)
		return
	}

	h.handleFileUpload(w, r, session)
}

func (h *Handler) handleURLUpload(w http.ResponseWriter, r *http.Request, session *storage.Session) {
	var request struct {
		ImageURL string `json:"image_url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}
	if !images.IsURL(request.ImageURL) {
		h.writeError(w, "image_url must be an http or https URL", http.StatusBadRequest)
		return
	}

	src, err := h.fetcher.Fetch(r.Context(), request.ImageURL)
	if err != nil {
		h.writeError(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.addItems(w, session, []*images.Source{src}, nil)
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request, session *storage.Session) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		h.writeError(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	var sources []*images.Source
	var rejected []rejectedUpload
	for _, header := range headers {
		src, err := h.readUpload(header)
		if err != nil {
			slog.Warn("Rejected upload", "file", header.Filename, "error", err)
			rejected = append(rejected, rejectedUpload{File: header.Filename, Error: err.Error()})
			continue
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		h.writeJSONStatus(w, http.StatusBadRequest, uploadResponse{Items: []models.Item{}, Rejected: rejected})
		return
	}

	h.addItems(w, session, sources, rejected)
}

func (h *Handler) readUpload(header *multipart.FileHeader) (*images.Source, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := h.fetcher.Read(file)
	if err != nil {
		return nil, err
	}
	return images.Detect(header.Filename, data)
}

func (h *Handler) addItems(w http.ResponseWriter, session *storage.Session, sources []*images.Source, rejected []rejectedUpload) {
	items := make([]models.Item, 0, len(sources))
	for _, src := range sources {
		items = append(items, h.newItem(session.ID, src))
	}

	if err := session.Items.Add(items...); err != nil {
		for _, item := range items {
			if item.Preview != nil {
				_ = item.Preview.Release()
			}
		}
		h.writeError(w, "Failed to add items: "+err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Uploaded images", "session_id", session.ID, "count", len(items), "rejected", len(rejected))
	h.writeJSONStatus(w, http.StatusCreated, uploadResponse{Items: items, Rejected: rejected})
}
