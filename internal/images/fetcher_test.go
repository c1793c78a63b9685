package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	data := pngBytes(t)

	tests := []struct {
		name     string
		fileName string
		data     []byte
		wantExt  string
		wantMIME string
		wantErr  error
	}{
		{"keeps original extension", "Holiday.PNG", data, ".PNG", "image/png", nil},
		{"falls back to sniffed extension", "upload", data, ".png", "image/png", nil},
		{"rejects text", "notes.jpg", []byte("hello, world"), "", "", ErrNotImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Detect(tt.fileName, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if src.Ext != tt.wantExt {
				t.Errorf("Expected ext %q, got %q", tt.wantExt, src.Ext)
			}
			if src.MIMEType != tt.wantMIME {
				t.Errorf("Expected MIME %q, got %q", tt.wantMIME, src.MIMEType)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(p, pngBytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewFetcher(0).LoadFile(p)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if src.Name != "photo.png" || src.Ext != ".png" {
		t.Errorf("Unexpected source %s %s", src.Name, src.Ext)
	}

	if _, err := NewFetcher(10).LoadFile(p); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestFetch(t *testing.T) {
	data := pngBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/images/cat.png":
			_, _ = w.Write(data)
		case "/page":
			_, _ = w.Write([]byte("<html><body>nope</body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewFetcher(0)
	src, err := f.Load(context.Background(), server.URL+"/images/cat.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if src.Name != "cat.png" || src.MIMEType != "image/png" {
		t.Errorf("Unexpected source %+v", src.Name)
	}

	if _, err := f.Fetch(context.Background(), server.URL+"/page"); !errors.Is(err, ErrNotImage) {
		t.Errorf("Expected ErrNotImage, got %v", err)
	}
	if _, err := f.Fetch(context.Background(), server.URL+"/missing.png"); err == nil {
		t.Error("Expected error for 404")
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.PNG", "notes.txt", ".hidden.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(dir, "notes.txt")

	got, err := ExpandPaths([]string{dir, single, "https://example.com/x.jpg"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.PNG"),
		filepath.Join(dir, "b.jpg"),
		single,
		"https://example.com/x.jpg",
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %s at %d, got %s", want[i], i, got[i])
		}
	}

	if _, err := ExpandPaths([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("https://example.com/a.jpg") || IsURL("/tmp/a.jpg") || IsURL("ftp://x/y") {
		t.Error("Unexpected IsURL result")
	}
}
