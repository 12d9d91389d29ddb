package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/sneakerbox/internal/imaging"
	"github.com/erazemk/sneakerbox/internal/metrics"
	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/storage"
	"github.com/erazemk/sneakerbox/internal/store"
)

// ShoesHandler handles shoe CRUD endpoints.
type ShoesHandler struct {
	DB             *sql.DB
	Bucket         storage.Bucket
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

// List handles GET /api/shoes.
func (h *ShoesHandler) List(w http.ResponseWriter, r *http.Request) {
	shoes, err := store.ListShoes(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing shoes", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list shoes")
		return
	}
	if shoes == nil {
		shoes = []model.Shoe{}
	}
	jsonResponse(w, http.StatusOK, shoes)
}

// Get handles GET /api/shoes/{id}.
func (h *ShoesHandler) Get(w http.ResponseWriter, r *http.Request) {
	shoe, err := store.GetShoe(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("getting shoe", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get shoe")
		return
	}
	if shoe == nil {
		jsonError(w, http.StatusNotFound, "shoe not found")
		return
	}
	jsonResponse(w, http.StatusOK, shoe)
}

// Create handles POST /api/shoes.
func (h *ShoesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft model.ShoeDraft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := draft.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	shoe, err := store.CreateShoe(r.Context(), h.DB, draft)
	if err != nil {
		slog.Error("creating shoe", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create shoe")
		return
	}

	h.Metrics.ShoesCreated(metrics.SourceAPI, 1)
	slog.Info("shoe created", "user", actor(r), "shoe", shoe.ID, "name", shoe.Name)
	jsonResponse(w, http.StatusCreated, shoe)
}

// Update handles PUT /api/shoes/{id}.
func (h *ShoesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var draft model.ShoeDraft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := draft.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := store.UpdateShoe(r.Context(), h.DB, id, draft)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "shoe not found")
		return
	}
	if err != nil {
		slog.Error("updating shoe", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update shoe")
		return
	}

	shoe, err := store.GetShoe(r.Context(), h.DB, id)
	if err != nil || shoe == nil {
		jsonError(w, http.StatusInternalServerError, "failed to reload shoe")
		return
	}
	slog.Info("shoe updated", "user", actor(r), "shoe", id)
	jsonResponse(w, http.StatusOK, shoe)
}

// Delete handles DELETE /api/shoes/{id}.
func (h *ShoesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := store.DeleteShoe(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "shoe not found")
		return
	}
	if err != nil {
		slog.Error("deleting shoe", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete shoe")
		return
	}

	slog.Info("shoe deleted", "user", actor(r), "shoe", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "shoe deleted"})
}

// UploadImage handles PUT /api/shoes/{id}/image.
func (h *ShoesHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	url, err := storage.SavePhoto(r.Context(), h.Bucket, file)
	if errors.Is(err, imaging.ErrUnsupported) {
		jsonError(w, http.StatusBadRequest, "image must be JPEG, PNG, or WebP")
		return
	}
	if err != nil {
		slog.Error("saving photo", "error", err)
		jsonError(w, http.StatusBadGateway, "failed to store image")
		return
	}

	if err := store.SetShoeImage(r.Context(), h.DB, id, url); err != nil {
		slog.Error("setting shoe image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	shoe.ImageURL = url
	slog.Info("shoe photo uploaded", "user", actor(r), "shoe", id, "url", url)
	jsonResponse(w, http.StatusOK, shoe)
}
