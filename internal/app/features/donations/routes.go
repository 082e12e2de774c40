// internal/app/features/donations/routes.go
package donations

import (
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all donation routes under the base path
// (typically "/donations" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(dr chi.Router) {
		dr.Use(sm.RequireSignedIn)

		dr.Get("/", h.ServeAvailable)
		dr.Post("/", h.HandleCreate)
		dr.Get("/mine", h.ServeMine)
		dr.Get("/{id}", h.ServeItem)
		dr.Post("/{id}/claim", h.HandleClaim)
		dr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
