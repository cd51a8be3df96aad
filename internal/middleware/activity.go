package middleware

import (
	"net/http"

	"github.com/YossiBenZaken/DatingApp/internal/services"

	"github.com/rs/zerolog/log"
)

// ActivityLogger marks the authenticated caller as active after each
// request completes. Best-effort: a failed update is logged and never fails
// the request it rode on.
func ActivityLogger(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			userID := GetUserID(r.Context())
			if userID == "" {
				return
			}
			if err := userService.TouchLastActive(r.Context(), userID); err != nil {
				log.Warn().
					Err(err).
					Str("user_id", userID).
					Msg("Failed to update last_active")
			}
		})
	}
}
