// Package images loads image payloads from local files and URLs and checks
// that what was loaded really is an image.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultMaxBytes = 10 << 20

var (
	// ErrNotImage is returned when sniffed content is not an image
	ErrNotImage = errors.New("not an image")
	// ErrTooLarge is returned when a payload exceeds the size limit
	ErrTooLarge = errors.New("image too large")
)

// Source is a loaded, verified image payload
type Source struct {
	Name     string
	Ext      string
	MIMEType string
	Data     []byte
}

// Fetcher retrieves images from disk or over HTTP
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a fetcher that refuses payloads over maxBytes
func NewFetcher(maxBytes int64) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
	}
}

// Load reads ref as a URL when it looks like one, otherwise as a file path
func (f *Fetcher) Load(ctx context.Context, ref string) (*Source, error) {
	if IsURL(ref) {
		return f.Fetch(ctx, ref)
	}
	return f.LoadFile(ref)
}

func (f *Fetcher) LoadFile(p string) (*Source, error) {
	file, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	data, err := f.Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return Detect(filepath.Base(p), data)
}

// Fetch downloads an image
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	data, err := f.Read(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}

	slog.Debug("Downloaded image", "url", rawURL, "size", len(data))
	return Detect(nameFromURL(rawURL), data)
}

// Read consumes r, enforcing the size limit
func (f *Fetcher) Read(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, f.MaxBytes)
	}
	return data, nil
}

// Detect sniffs the payload type. The extension comes from name when it
// has one, otherwise from the detected type.
func Detect(name string, data []byte) (*Source, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotImage, name, mt.String())
	}

	ext := path.Ext(name)
	if ext == "" {
		ext = mt.Extension()
	}
	if name == "" {
		name = "image" + ext
	}

	return &Source{
		Name:     name,
		Ext:      ext,
		MIMEType: mt.String(),
		Data:     data,
	}, nil
}

// IsURL reports whether ref is an http(s) URL
func IsURL(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	return base
}
