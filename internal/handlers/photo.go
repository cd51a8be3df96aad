package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/YossiBenZaken/DatingApp/internal/middleware"
	"github.com/YossiBenZaken/DatingApp/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// UploadRequest represents a request to get a pre-signed upload URL
type UploadRequest struct {
	ContentType string `json:"content_type"`
	Description string `json:"description"`
}

// UploadPhoto handles POST /api/v1/photos/upload
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	resp, err := h.photoService.GetPreSignedURL(ctx, userID, req.ContentType, req.Description)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create upload URL")
		respondAppError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", resp.PhotoID).
		Msg("Photo upload URL created")

	respondJSON(w, http.StatusOK, resp)
}

// GetPhotos handles GET /api/v1/users/{user_id}/photos
func (h *PhotoHandler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetID := chi.URLParam(r, "user_id")

	photos, err := h.photoService.GetPhotosForUser(ctx, targetID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, photos)
}

// SetMainPhoto handles POST /api/v1/photos/{photo_id}/set-main
func (h *PhotoHandler) SetMainPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	photoID := chi.URLParam(r, "photo_id")

	if err := h.photoService.SetMainPhoto(ctx, userID, photoID); err != nil {
		respondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePhoto handles DELETE /api/v1/photos/{photo_id}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	photoID := chi.URLParam(r, "photo_id")

	if err := h.photoService.DeletePhoto(ctx, userID, photoID); err != nil {
		respondAppError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", photoID).
		Msg("Photo deleted")

	w.WriteHeader(http.StatusNoContent)
}
