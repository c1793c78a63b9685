package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/tagger/internal/tagging"
)

// HandleBatch starts a batch run over the session's pending items and
// returns at once. Progress is visible through the session counts.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	selected, done, err := h.tagger.StartBatch(h.ctx, session.Items, h.options(session))
	if errors.Is(err, tagging.ErrBatchInProgress) {
		h.writeError(w, "A batch is already running for this session", http.StatusConflict)
		return
	}
	if err != nil {
		h.writeError(w, "Failed to start batch: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.batches.Add(1)
	go func() {
		defer h.batches.Done()
		outcome := <-done
		if outcome.Err != nil {
			slog.Warn("Batch run stopped", "session_id", session.ID, "error", outcome.Err)
		}
	}()

	h.writeJSONStatus(w, http.StatusAccepted, map[string]any{
		"session_id": session.ID,
		"selected":   selected,
	})
}
