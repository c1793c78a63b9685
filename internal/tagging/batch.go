package tagging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/tagger/internal/models"
)

// BatchReport summarizes one batch run
type BatchReport struct {
	Selected  int           `json:"selected"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}

// SelectPending returns, in collection order, the ids of items that have no
// name yet and are not already generating
func SelectPending(items []models.Item) []string {
	var ids []string
	for _, item := range items {
		if item.Successful() || item.Status.Kind() == models.StatusGenerating {
			continue
		}
		ids = append(ids, item.ID)
	}
	return ids
}

// BatchOutcome is delivered when a started batch finishes
type BatchOutcome struct {
	Report *BatchReport
	Err    error
}

// RunBatch processes the pending items of a single snapshot strictly one at
// a time, waiting on the pacer after every request. Items added later are not
// picked up; items removed before their turn are skipped but still paced.
func (s *Service) RunBatch(ctx context.Context, store Store, opts Options) (*BatchReport, error) {
	if !s.begin(store) {
		return nil, ErrBatchInProgress
	}
	defer s.end(store)
	return s.run(ctx, store, SelectPending(store.Snapshot()), opts)
}

// StartBatch claims store and selects its pending items synchronously, then
// runs the batch in the background. It returns how many items were selected
// and a channel that receives the outcome once the run is over.
func (s *Service) StartBatch(ctx context.Context, store Store, opts Options) (int, <-chan BatchOutcome, error) {
	if !s.begin(store) {
		return 0, nil, ErrBatchInProgress
	}
	selected := SelectPending(store.Snapshot())

	done := make(chan BatchOutcome, 1)
	go func() {
		report, err := s.run(ctx, store, selected, opts)
		s.end(store)
		done <- BatchOutcome{Report: report, Err: err}
		close(done)
	}()
	return len(selected), done, nil
}

func (s *Service) run(ctx context.Context, store Store, selected []string, opts Options) (*BatchReport, error) {
	start := time.Now()
	report := &BatchReport{Selected: len(selected)}

	slog.Info("Starting batch run", "items", len(selected), "provider", s.provider.Name())

	for i, id := range selected {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}

		slog.Info("Processing item", "id", id, "progress", fmt.Sprintf("%d/%d", i+1, len(selected)))

		status, err := s.Generate(ctx, store, id, opts)
		switch {
		case errors.Is(err, models.ErrItemNotFound):
			report.Skipped++
		case status.Kind() == models.StatusSuccess:
			report.Succeeded++
		default:
			report.Failed++
		}

		if err := s.pacer.Wait(ctx); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	report.Duration = time.Since(start)
	slog.Info("Batch run complete",
		"selected", report.Selected,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"duration", report.Duration)
	return report, nil
}
