// Package preview manages thumbnail files whose lifetime is tied to an item.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
)

// Handle is one preview file. Release removes it exactly once.
type Handle struct {
	path        string
	contentType string

	once     sync.Once
	err      error
	released func()
}

// Path returns the file backing the preview
func (h *Handle) Path() string {
	return h.path
}

// ContentType returns the MIME type of the preview file
func (h *Handle) ContentType() string {
	return h.contentType
}

// Release deletes the preview file. Calls after the first are no-ops.
func (h *Handle) Release() error {
	h.once.Do(func() {
		if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.err = fmt.Errorf("failed to remove preview: %w", err)
		}
		if h.released != nil {
			h.released()
		}
	})
	return h.err
}

// Store creates thumbnails in a directory and tracks how many are live
type Store struct {
	dir  string
	size int

	created  atomic.Int64
	released atomic.Int64
}

// NewStore creates the preview directory if needed
func NewStore(dir string, size int) (*Store, error) {
	if dir == "" {
		d, err := os.MkdirTemp("", "tagger-previews-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create preview directory: %w", err)
		}
		dir = d
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}
	if size <= 0 {
		size = 256
	}
	return &Store{dir: dir, size: size}, nil
}

// Dir returns the directory previews are written to
func (s *Store) Dir() string {
	return s.dir
}

// Create writes a thumbnail for data. Payloads that cannot be decoded
// (formats the image package does not know) are stored as-is so the
// caller still gets a usable handle.
func (s *Store) Create(id, ext, mimeType string, data []byte) (*Handle, error) {
	h := &Handle{released: func() { s.released.Add(1) }}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		h.path = filepath.Join(s.dir, id+".jpg")
		h.contentType = "image/jpeg"
		if err := writeThumbnail(h.path, imaging.Fit(img, s.size, s.size, imaging.Lanczos)); err != nil {
			return nil, err
		}
	} else {
		slog.Debug("Preview decode failed, keeping original bytes", "id", id, "error", err)
		h.path = filepath.Join(s.dir, id+ext)
		h.contentType = mimeType
		if err := os.WriteFile(h.path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write preview: %w", err)
		}
	}

	s.created.Add(1)
	return h, nil
}

// Live returns the number of previews created and not yet released
func (s *Store) Live() int64 {
	return s.created.Load() - s.released.Load()
}

func writeThumbnail(path string, img image.Image) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(80)); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}
