// internal/app/features/users/routes.go
package users

import (
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all user directory routes under the base path
// (typically "/users" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// The leaderboard and badge ladder are public.
	r.Get("/leaderboard", h.ServeLeaderboard)
	r.Get("/badges", h.ServeBadgeThresholds)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "department"))

		pr.Get("/workers", h.ServeWorkers)
	})

	// Full account directory is admin-only.
	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireSignedIn)
		ar.Use(sm.RequireRole("admin"))

		ar.Get("/", h.ServeUsers)
		ar.Get("/{id}", h.ServeUser)
	})

	return r
}
