package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrItemNotFound is returned when an item is not in the live collection
	ErrItemNotFound = errors.New("item not found")
	// ErrDuplicateID is returned when an item identity is already in use
	ErrDuplicateID = errors.New("duplicate item id")
)

// Releaser is a resource bound to an item's lifetime
type Releaser interface {
	Release() error
}

// Session represents one review workspace (the equivalent of a browser tab)
type Session struct {
	ID         string    `json:"id"`
	Items      []Item    `json:"items"`
	Counts     Counts    `json:"counts"`
	WordLimit  int       `json:"word_limit"`
	Vocabulary string    `json:"vocabulary"`
	Keywords   []string  `json:"keywords"`
	CreatedAt  time.Time `json:"created_at"`
}

// Item represents one uploaded image and its processing state
type Item struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Ext          string    `json:"ext"`
	MIMEType     string    `json:"mime_type"`
	Size         int       `json:"size"`
	Status       Status    `json:"status"`
	Name         string    `json:"name,omitempty"`
	Keywords     []string  `json:"keywords"`
	PreviewURL   string    `json:"preview_url,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`

	Data    []byte   `json:"-"`
	Preview Releaser `json:"-"`
}

// Successful reports whether the item has a suggested name, whatever its status
func (i Item) Successful() bool {
	return i.Name != ""
}

// FileName returns the exported file name: suggested name plus original extension
func (i Item) FileName() string {
	return i.Name + i.Ext
}

// Clone copies the mutable parts of an item so snapshots never share backing arrays
func (i Item) Clone() Item {
	c := i
	if i.Keywords != nil {
		c.Keywords = append([]string(nil), i.Keywords...)
	}
	return c
}

// Counts aggregates item states over a snapshot
type Counts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Generating int `json:"generating"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
	Exportable int `json:"exportable"`
}

// Processing reports whether any generation request is in flight
func (c Counts) Processing() bool {
	return c.Generating > 0
}

// CountItems computes Counts for a snapshot
func CountItems(items []Item) Counts {
	c := Counts{Total: len(items)}
	for _, item := range items {
		switch item.Status.Kind() {
		case StatusPending:
			c.Pending++
		case StatusGenerating:
			c.Generating++
		case StatusSuccess:
			c.Succeeded++
		case StatusFailed:
			c.Failed++
		}
		if item.Successful() {
			c.Exportable++
		}
	}
	return c
}

// NewItem builds a pending item with a fresh time-ordered identity
func NewItem(originalName, ext, mimeType string, data []byte) Item {
	now := time.Now()
	return Item{
		ID:           uuid.Must(uuid.NewV7()).String(),
		OriginalName: originalName,
		Ext:          ext,
		MIMEType:     mimeType,
		Size:         len(data),
		Status:       Pending(),
		Keywords:     []string{},
		UploadedAt:   now,
		Data:         data,
	}
}
