package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/sneakerbox/internal/format"
	"github.com/erazemk/sneakerbox/internal/imaging"
	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/storage"
	"github.com/erazemk/sneakerbox/internal/store"
	"github.com/erazemk/sneakerbox/internal/view"
)

func shoePath(id string) string { return "/admin/shoes/" + id }

// ShoeDetailPage handles GET /admin/shoes/{id}.
func (s *Server) ShoeDetailPage(w http.ResponseWriter, r *http.Request) {
	shoe, err := store.GetShoe(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get shoe", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if shoe == nil {
		http.Error(w, "shoe not found", http.StatusNotFound)
		return
	}

	history, err := store.ListHistory(r.Context(), s.DB, shoe.ID)
	if err != nil {
		slog.Error("failed to list history", "error", err)
	}

	s.Templates.Render(w, "shoe_detail.html", &struct {
		PageData
		Shoe       *model.Shoe
		History    []model.HistoryEntry
		Categories []string
		Now        time.Time
	}{
		PageData:   s.page(w, r, shoe.Name),
		Shoe:       shoe,
		History:    history,
		Categories: model.Categories,
		Now:        time.Now(),
	})
}

// ShoeUpdateSubmit handles POST /admin/shoes/{id}.
func (s *Server) ShoeUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	draft, err := draftFromForm(r)
	if err != nil {
		redirectWith(w, r, shoePath(id), flashError, "Invalid shoe: "+err.Error())
		return
	}

	err = store.UpdateShoe(r.Context(), s.DB, id, draft)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "shoe not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to update shoe", "error", err)
		redirectWith(w, r, shoePath(id), flashError, "Saving the shoe failed.")
		return
	}

	slog.Info("shoe updated", "user", actor(r), "shoe", id)
	if r.FormValue("return") == "admin" {
		saveViewState(w, viewState(r).Close())
		redirectWith(w, r, "/admin", flashSuccess, "Saved "+draft.Name+".")
		return
	}
	redirectWith(w, r, shoePath(id), flashSuccess, "Saved.")
}

// ShoeDeleteSubmit handles POST /admin/shoes/{id}/delete.
func (s *Server) ShoeDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := store.DeleteShoe(r.Context(), s.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		redirectWith(w, r, "/admin", flashError, "That shoe no longer exists.")
		return
	}
	if err != nil {
		slog.Error("failed to delete shoe", "error", err)
		redirectWith(w, r, shoePath(id), flashError, "Deleting the shoe failed.")
		return
	}

	state := viewState(r)
	if state.Pick != nil && state.Pick.ShoeID == id {
		state = state.WithPick(nil)
	}
	if state.Modal == view.ModalEdit && state.EditID == id {
		state = state.Close()
	}
	saveViewState(w, state)

	slog.Info("shoe deleted", "user", actor(r), "shoe", id)
	redirectWith(w, r, "/admin", flashSuccess, "Shoe deleted.")
}

// savePhoto stores the optional "image" upload of a parsed multipart form.
// It returns an empty URL and no error when no photo was sent.
func (s *Server) savePhoto(r *http.Request) (string, error) {
	if s.Bucket == nil || r.MultipartForm == nil {
		return "", nil
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return "", nil
	}
	defer file.Close()

	url, err := storage.SavePhoto(r.Context(), s.Bucket, file)
	if errors.Is(err, imaging.ErrUnsupported) {
		return "", fmt.Errorf("the photo is not a JPEG, PNG or WebP image")
	}
	if err != nil {
		slog.Error("failed to store photo", "error", err)
		return "", fmt.Errorf("the photo could not be stored")
	}
	return url, nil
}

// ShoePhotoSubmit handles POST /admin/shoes/{id}/photo.
func (s *Server) ShoePhotoSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		redirectWith(w, r, shoePath(id), flashError, "The photo was too large.")
		return
	}

	url, err := s.savePhoto(r)
	if err != nil {
		redirectWith(w, r, shoePath(id), flashError, "Upload failed: "+err.Error()+".")
		return
	}
	if url == "" {
		redirectWith(w, r, shoePath(id), flashError, "Choose a photo to upload.")
		return
	}

	if err := store.SetShoeImage(r.Context(), s.DB, id, url); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "shoe not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to set shoe image", "error", err)
		redirectWith(w, r, shoePath(id), flashError, "Saving the photo failed.")
		return
	}

	slog.Info("shoe photo uploaded", "user", actor(r), "shoe", id)
	redirectWith(w, r, shoePath(id), flashSuccess, "Photo updated.")
}

// markedAt reads the optional "at" field. Blank means now.
func markedAt(r *http.Request) (*time.Time, error) {
	v := r.FormValue("at")
	if v == "" {
		return nil, nil
	}
	at, ok := format.ParseDateTime(v)
	if !ok {
		return nil, fmt.Errorf("invalid time %q", v)
	}
	return &at, nil
}

// back returns where a usage form asked to go after submitting.
func back(r *http.Request, id string) string {
	if r.FormValue("return") == "admin" {
		return "/admin"
	}
	return shoePath(id)
}

// ShoeWornSubmit handles POST /admin/shoes/{id}/worn.
func (s *Server) ShoeWornSubmit(w http.ResponseWriter, r *http.Request) {
	s.markSubmit(w, r, model.HistoryWorn)
}

// ShoeCleanedSubmit handles POST /admin/shoes/{id}/cleaned.
func (s *Server) ShoeCleanedSubmit(w http.ResponseWriter, r *http.Request) {
	s.markSubmit(w, r, model.HistoryCleaned)
}

func (s *Server) markSubmit(w http.ResponseWriter, r *http.Request, typ string) {
	id := r.PathValue("id")
	to := back(r, id)

	at, err := markedAt(r)
	if err != nil {
		redirectWith(w, r, to, flashError, "Pick a valid date and time.")
		return
	}

	switch {
	case typ == model.HistoryWorn && at != nil:
		_, err = s.Tracker.MarkWornAt(r.Context(), id, *at)
	case typ == model.HistoryWorn:
		_, err = s.Tracker.MarkWorn(r.Context(), id)
	case at != nil:
		_, err = s.Tracker.MarkCleanedAt(r.Context(), id, *at)
	default:
		_, err = s.Tracker.MarkCleaned(r.Context(), id)
	}
	if errors.Is(err, store.ErrNotFound) {
		redirectWith(w, r, "/admin", flashError, "That shoe no longer exists.")
		return
	}
	if err != nil {
		slog.Error("failed to record shoe usage", "type", typ, "error", err)
		redirectWith(w, r, to, flashError, "Saving failed.")
		return
	}

	slog.Info("shoe usage recorded", "user", actor(r), "shoe", id, "type", typ)
	msg := "Marked as worn."
	if typ == model.HistoryCleaned {
		msg = "Marked as cleaned."
	}
	redirectWith(w, r, to, flashSuccess, msg)
}

// HistoryUpdateSubmit handles POST /admin/history/{id}.
func (s *Server) HistoryUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	shoeID := r.FormValue("shoe_id")

	at, ok := format.ParseDateTime(r.FormValue("timestamp"))
	if !ok {
		redirectWith(w, r, shoePath(shoeID), flashError, "Pick a valid date and time.")
		return
	}

	entry, err := s.Tracker.EditEntry(r.Context(), r.PathValue("id"), at)
	if errors.Is(err, store.ErrNotFound) {
		redirectWith(w, r, shoePath(shoeID), flashError, "That entry no longer exists.")
		return
	}
	if err != nil {
		slog.Error("failed to edit history entry", "error", err)
		redirectWith(w, r, shoePath(shoeID), flashError, "Saving the entry failed.")
		return
	}

	slog.Info("history entry edited", "user", actor(r), "entry", entry.ID)
	redirectWith(w, r, shoePath(entry.ShoeID), flashSuccess, "Entry updated.")
}

// HistoryDeleteSubmit handles POST /admin/history/{id}/delete.
func (s *Server) HistoryDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	fallback := r.FormValue("shoe_id")

	shoeID, err := s.Tracker.DeleteEntry(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		redirectWith(w, r, shoePath(fallback), flashError, "That entry no longer exists.")
		return
	}
	if err != nil {
		slog.Error("failed to delete history entry", "error", err)
		redirectWith(w, r, shoePath(fallback), flashError, "Deleting the entry failed.")
		return
	}

	slog.Info("history entry deleted", "user", actor(r), "entry", id, "shoe", shoeID)
	redirectWith(w, r, shoePath(shoeID), flashSuccess, "Entry deleted.")
}
