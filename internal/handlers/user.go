package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/YossiBenZaken/DatingApp/internal/middleware"
	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UserListItem is the directory listing shape
type UserListItem struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	KnownAs    string    `json:"known_as"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	Created    time.Time `json:"created"`
	LastActive time.Time `json:"last_active"`
}

func toListItem(u *models.User) UserListItem {
	return UserListItem{
		ID:         u.ID,
		Username:   u.Username,
		KnownAs:    u.KnownAs,
		Age:        u.Age(),
		Gender:     u.Gender,
		City:       u.City,
		Country:    u.Country,
		Created:    u.Created,
		LastActive: u.LastActive,
	}
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	q := r.URL.Query()

	params := services.UserParams{
		Gender:  q.Get("gender"),
		OrderBy: q.Get("orderBy"),
		Page:    pageRequest(r),
	}
	if v := q.Get("minAge"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.MinAge = n
		}
	}
	if v := q.Get("maxAge"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.MaxAge = n
		}
	}
	if q.Get("likers") == "true" {
		params.LikeFilter = models.Likers
	} else if q.Get("likees") == "true" {
		params.LikeFilter = models.Likees
	}

	page, err := h.userService.ListUsers(ctx, userID, params)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list users")
		respondAppError(w, err)
		return
	}

	items := make([]UserListItem, 0, len(page.Items))
	for _, u := range page.Items {
		items = append(items, toListItem(u))
	}

	addPagination(w, page)
	respondJSON(w, http.StatusOK, items)
}

// GetUser handles GET /api/v1/users/{user_id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetID := chi.URLParam(r, "user_id")

	user, err := h.userService.GetUser(ctx, targetID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /api/v1/users/{user_id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	targetID := chi.URLParam(r, "user_id")

	if targetID != userID {
		respondError(w, "you can only update your own profile", http.StatusForbidden)
		return
	}

	var req services.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdateUser(ctx, userID, req); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update user")
		respondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LikeUser handles POST /api/v1/users/{user_id}/like
func (h *UserHandler) LikeUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	likeeID := chi.URLParam(r, "user_id")

	if err := h.userService.Like(ctx, userID, likeeID); err != nil {
		respondAppError(w, err)
		return
	}

	log.Info().
		Str("liker_id", userID).
		Str("likee_id", likeeID).
		Msg("Like created")

	w.WriteHeader(http.StatusNoContent)
}
