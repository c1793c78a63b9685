package storage

import (
	"testing"
	"time"

	"github.com/lehigh-university-libraries/tagger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := New()
	tr := &previewTracker{}

	first := NewSession(10)
	second := NewSession(5)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	store.Set(first)
	store.Set(second)

	require.NoError(t, first.Items.Add(tr.item("a"), tr.item("b")))
	require.NoError(t, second.Items.Add(tr.item("c")))

	all := store.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)

	got, ok := store.Get(first.ID)
	require.True(t, ok)
	assert.Same(t, first, got)

	assert.True(t, store.Delete(first.ID))
	assert.False(t, store.Delete(first.ID))
	assert.Equal(t, int64(2), tr.released.Load())

	store.Close()
	assert.Empty(t, store.GetAll())
	assert.Equal(t, tr.created.Load(), tr.released.Load())
}

func TestSessionView(t *testing.T) {
	s := NewSession(10)
	s.SetSettings(7, "travel, beach")

	item := models.NewItem("a.jpg", ".jpg", "image/jpeg", nil)
	item.Name = "city"
	item.Keywords = []string{"night", "city"}
	require.NoError(t, s.Items.Add(item))

	view := s.View()
	assert.Equal(t, 7, view.WordLimit)
	assert.Equal(t, "travel, beach", view.Vocabulary)
	assert.Equal(t, []string{"beach", "city", "night", "travel"}, view.Keywords)
	assert.Equal(t, 1, view.Counts.Exportable)
}
