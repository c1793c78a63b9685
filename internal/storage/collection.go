package storage

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/lehigh-university-libraries/tagger/internal/keywords"
	"github.com/lehigh-university-libraries/tagger/internal/models"
)

// Collection is the ordered, owned set of items behind one session.
// Every mutation builds a new slice under the write lock; the slice handed
// out by Snapshot is never modified afterwards, so readers always see a
// consistent view without copying.
type Collection struct {
	items []models.Item
	mu    sync.RWMutex
}

func NewCollection() *Collection {
	return &Collection{items: []models.Item{}}
}

// Snapshot returns the current items. The result must be treated as read-only.
func (c *Collection) Snapshot() []models.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// Get returns a copy of the item with the given id
func (c *Collection) Get(id string) (models.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == id {
			return item.Clone(), true
		}
	}
	return models.Item{}, false
}

// Add appends items in order. The whole call fails if any id is already live.
func (c *Collection) Add(items ...models.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(c.items)+len(items))
	for _, item := range c.items {
		seen[item.ID] = struct{}{}
	}
	for _, item := range items {
		if _, dup := seen[item.ID]; dup || item.ID == "" {
			return fmt.Errorf("%w: %q", models.ErrDuplicateID, item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	next := make([]models.Item, 0, len(c.items)+len(items))
	next = append(next, c.items...)
	for _, item := range items {
		next = append(next, item.Clone())
	}
	c.items = next
	return nil
}

// Update applies fn to a copy of the item and swaps it in.
// It returns false, without calling fn, when the item is gone.
func (c *Collection) Update(id string, fn func(*models.Item)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}

	updated := c.items[idx].Clone()
	fn(&updated)
	updated.ID = c.items[idx].ID

	next := make([]models.Item, len(c.items))
	copy(next, c.items)
	next[idx] = updated
	c.items = next
	return true
}

// Remove deletes the item and releases its preview
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	removed := c.items[idx]
	next := make([]models.Item, 0, len(c.items)-1)
	next = append(next, c.items[:idx]...)
	next = append(next, c.items[idx+1:]...)
	c.items = next
	c.mu.Unlock()

	release(removed)
	return true
}

// Clear removes every item, releasing all previews, and returns how many were removed
func (c *Collection) Clear() int {
	c.mu.Lock()
	removed := c.items
	c.items = []models.Item{}
	c.mu.Unlock()

	for _, item := range removed {
		release(item)
	}
	return len(removed)
}

// Replace swaps in the whole item list that fn builds from the current one.
// fn runs under the write lock and must not call back into the collection.
// Items whose id is not in the new list are treated as removed and their
// previews released. Nothing changes when fn fails.
func (c *Collection) Replace(fn func(current []models.Item) ([]models.Item, error)) error {
	c.mu.Lock()
	old := c.items
	items, err := fn(old)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	seen := make(map[string]struct{}, len(items))
	next := make([]models.Item, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup || item.ID == "" {
			c.mu.Unlock()
			return fmt.Errorf("%w: %q", models.ErrDuplicateID, item.ID)
		}
		seen[item.ID] = struct{}{}
		next = append(next, item.Clone())
	}
	c.items = next
	c.mu.Unlock()

	for _, item := range old {
		if _, kept := seen[item.ID]; !kept {
			release(item)
		}
	}
	return nil
}

// ApplyKeywords adds the chosen keywords to every successful item and
// returns how many items changed
func (c *Collection) ApplyKeywords(chosen []string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, changed := keywords.ApplyToSuccessful(c.items, chosen)
	if changed > 0 {
		c.items = next
	}
	return changed
}

// Rename sets the suggested name as typed by the user
func (c *Collection) Rename(id, name string) bool {
	return c.Update(id, func(item *models.Item) {
		item.Name = strings.TrimSpace(name)
	})
}

func (c *Collection) AddKeyword(id, keyword string) bool {
	return c.Update(id, func(item *models.Item) {
		item.Keywords = keywords.Add(item.Keywords, strings.TrimSpace(keyword))
	})
}

func (c *Collection) RemoveKeyword(id, keyword string) bool {
	return c.Update(id, func(item *models.Item) {
		item.Keywords = keywords.Remove(item.Keywords, keyword)
	})
}

// SetKeywords replaces the item's keywords with a normalized copy of kw
func (c *Collection) SetKeywords(id string, kw []string) bool {
	return c.Update(id, func(item *models.Item) {
		item.Keywords = keywords.Normalize(kw)
	})
}

// Counts aggregates the current snapshot
func (c *Collection) Counts() models.Counts {
	return models.CountItems(c.Snapshot())
}

func (c *Collection) indexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func release(item models.Item) {
	if item.Preview == nil {
		return
	}
	if err := item.Preview.Release(); err != nil {
		slog.Warn("Failed to release preview", "id", item.ID, "err", err)
	}
}

// Reorder replaces the collection with the items named by ids, in that
// order. Items left out are removed.
func (c *Collection) Reorder(ids []string) error {
	return c.Replace(func(current []models.Item) ([]models.Item, error) {
		byID := make(map[string]models.Item, len(current))
		for _, item := range current {
			byID[item.ID] = item
		}
		next := make([]models.Item, 0, len(ids))
		for _, id := range ids {
			item, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: %q", models.ErrItemNotFound, id)
			}
			next = append(next, item)
		}
		return next, nil
	})
}
