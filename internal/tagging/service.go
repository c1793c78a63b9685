// Package tagging drives items through generation: the per-item controller
// and the paced batch sequencer.
package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lehigh-university-libraries/tagger/internal/keywords"
	"github.com/lehigh-university-libraries/tagger/internal/models"
	"github.com/lehigh-university-libraries/tagger/internal/naming"
	"github.com/lehigh-university-libraries/tagger/internal/providers"
)

// Store is the item collection the service mutates
type Store interface {
	Get(id string) (models.Item, bool)
	Update(id string, fn func(*models.Item)) bool
	Snapshot() []models.Item
}

// Options are the per-session generation settings
type Options struct {
	WordLimit  int
	Vocabulary string
}

type Service struct {
	provider providers.Provider
	pacer    Pacer

	mu      sync.Mutex
	running map[Store]struct{}
}

func NewService(provider providers.Provider, pacer Pacer) *Service {
	if pacer == nil {
		pacer = NewFixedPacer(PacingInterval, nil)
	}
	return &Service{
		provider: provider,
		pacer:    pacer,
		running:  make(map[Store]struct{}),
	}
}

// Provider returns the generation capability in use
func (s *Service) Provider() providers.Provider {
	return s.provider
}

// Generate moves one item through Generating to Success or Failed and
// returns the resulting status. Provider failures become a Failed status,
// never an error. models.ErrItemNotFound is returned when the item is absent
// at the start, or was removed while the request was in flight; in the
// latter case the result is dropped.
func (s *Service) Generate(ctx context.Context, store Store, id string, opts Options) (models.Status, error) {
	item, ok := store.Get(id)
	if !ok {
		return models.Status{}, models.ErrItemNotFound
	}
	if !store.Update(id, func(it *models.Item) { it.Status = models.Generating() }) {
		return models.Status{}, models.ErrItemNotFound
	}

	slog.Info("Generating name and keywords", "id", id, "file", item.OriginalName, "provider", s.provider.Name(), "model", s.provider.Model())

	result, err := s.call(ctx, providers.Request{
		Image:      item.Data,
		MIMEType:   item.MIMEType,
		WordLimit:  opts.WordLimit,
		Vocabulary: opts.Vocabulary,
	})

	var status models.Status
	var apply func(*models.Item)
	if err != nil {
		status = models.Failed(FailureMessage(err))
		slog.Warn("Generation failed", "id", id, "rate_limited", IsRateLimited(err), "error", err)
		apply = func(it *models.Item) { it.Status = status }
	} else {
		name := naming.Sanitize(result.Filename)
		kw := keywords.Normalize(result.Keywords)
		status = models.Succeeded(name, kw)
		slog.Info("Generated name and keywords", "id", id, "name", name, "keywords", len(kw))
		apply = func(it *models.Item) {
			it.Status = status
			it.Name = name
			it.Keywords = kw
		}
	}

	if !store.Update(id, apply) {
		slog.Debug("Item removed during generation, discarding result", "id", id)
		return status, models.ErrItemNotFound
	}
	return status, nil
}

// call invokes the provider; a panicking provider is reported as a failure
func (s *Service) call(ctx context.Context, req providers.Request) (result *providers.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panicked: %v", r)
		}
	}()
	result, err = s.provider.Generate(ctx, req)
	if err == nil && result == nil {
		err = fmt.Errorf("%w: empty result", providers.ErrMalformedResponse)
	}
	return result, err
}

func (s *Service) begin(store Store) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.running[store]; busy {
		return false
	}
	s.running[store] = struct{}{}
	return true
}

func (s *Service) end(store Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, store)
}

// Running reports whether a batch is in progress over store
func (s *Service) Running(store Store) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.running[store]
	return busy
}
