package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/store"
	"github.com/erazemk/sneakerbox/internal/tracking"
)

// HistoryHandler handles wear and cleaning endpoints.
type HistoryHandler struct {
	DB      *sql.DB
	Tracker *tracking.Tracker
}

type markRequest struct {
	At *time.Time `json:"at"`
}

type editEntryRequest struct {
	Timestamp *time.Time `json:"timestamp"`
}

type markResponse struct {
	Shoe  *model.Shoe         `json:"shoe"`
	Entry *model.HistoryEntry `json:"entry"`
}

// MarkWorn handles POST /api/shoes/{id}/worn.
func (h *HistoryHandler) MarkWorn(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, model.HistoryWorn)
}

// MarkCleaned handles POST /api/shoes/{id}/cleaned.
func (h *HistoryHandler) MarkCleaned(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, model.HistoryCleaned)
}

func (h *HistoryHandler) mark(w http.ResponseWriter, r *http.Request, typ string) {
	id := r.PathValue("id")

	var req markRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		entry *model.HistoryEntry
		err   error
	)
	switch {
	case typ == model.HistoryWorn && req.At != nil:
		entry, err = h.Tracker.MarkWornAt(r.Context(), id, *req.At)
	case typ == model.HistoryWorn:
		entry, err = h.Tracker.MarkWorn(r.Context(), id)
	case req.At != nil:
		entry, err = h.Tracker.MarkCleanedAt(r.Context(), id, *req.At)
	default:
		entry, err = h.Tracker.MarkCleaned(r.Context(), id)
	}
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "shoe not found")
		return
	}
	if err != nil {
		slog.Error("recording shoe usage", "type", typ, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to record "+typ)
		return
	}

	shoe, err := store.GetShoe(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to reload shoe")
		return
	}
	slog.Info("shoe usage recorded", "user", actor(r), "shoe", id, "type", typ)
	jsonResponse(w, http.StatusOK, markResponse{Shoe: shoe, Entry: entry})
}

// List handles GET /api/shoes/{id}/history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	shoe, err := store.GetShoe(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get shoe")
		return
	}
	if shoe == nil {
		jsonError(w, http.StatusNotFound, "shoe not found")
		return
	}

	entries, err := store.ListHistory(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("listing history", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Update handles PUT /api/history/{id}.
func (h *HistoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req editEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Timestamp == nil {
		jsonError(w, http.StatusBadRequest, "timestamp required")
		return
	}

	entry, err := h.Tracker.EditEntry(r.Context(), r.PathValue("id"), *req.Timestamp)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "history entry not found")
		return
	}
	if err != nil {
		slog.Error("editing history entry", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update history entry")
		return
	}

	slog.Info("history entry edited", "user", actor(r), "entry", entry.ID)
	jsonResponse(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/history/{id}.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	shoeID, err := h.Tracker.DeleteEntry(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "history entry not found")
		return
	}
	if err != nil {
		slog.Error("deleting history entry", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete history entry")
		return
	}

	slog.Info("history entry deleted", "user", actor(r), "entry", id, "shoe", shoeID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "history entry deleted"})
}
