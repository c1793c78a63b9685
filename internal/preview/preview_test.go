package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCreateThumbnail(t *testing.T) {
	store, err := NewStore(t.TempDir(), 64)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	h, err := store.Create("item-1", ".png", "image/png", pngBytes(t, 400, 200))
	if err != nil {
		t.Fatalf("Failed to create preview: %v", err)
	}

	if h.ContentType() != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", h.ContentType())
	}

	f, err := os.Open(h.Path())
	if err != nil {
		t.Fatalf("Preview file missing: %v", err)
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		t.Fatalf("Preview is not an image: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Errorf("Expected 64x32 thumbnail, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestUndecodablePayloadIsKept(t *testing.T) {
	store, err := NewStore(t.TempDir(), 64)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	h, err := store.Create("item-2", ".heic", "image/heic", []byte("not really an image"))
	if err != nil {
		t.Fatalf("Failed to create preview: %v", err)
	}
	if h.ContentType() != "image/heic" {
		t.Errorf("Expected original content type, got %s", h.ContentType())
	}
	if _, err := os.Stat(h.Path()); err != nil {
		t.Errorf("Expected preview file: %v", err)
	}
}

func TestReleaseExactlyOnce(t *testing.T) {
	store, err := NewStore(t.TempDir(), 32)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	var handles []*Handle
	for _, id := range []string{"a", "b", "c"} {
		h, err := store.Create(id, ".png", "image/png", pngBytes(t, 10, 10))
		if err != nil {
			t.Fatalf("Failed to create preview: %v", err)
		}
		handles = append(handles, h)
	}

	if store.Live() != 3 {
		t.Fatalf("Expected 3 live previews, got %d", store.Live())
	}

	for _, h := range handles {
		if err := h.Release(); err != nil {
			t.Errorf("Release failed: %v", err)
		}
		if err := h.Release(); err != nil {
			t.Errorf("Second release failed: %v", err)
		}
		if _, err := os.Stat(h.Path()); !os.IsNotExist(err) {
			t.Errorf("Preview file still exists: %s", h.Path())
		}
	}

	if store.Live() != 0 {
		t.Errorf("Expected 0 live previews, got %d", store.Live())
	}
}
