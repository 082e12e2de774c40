// internal/app/features/reports/routes.go
package reports

import (
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all report routes under the base path
// (typically "/reports" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Category list is public so the submission form can render a picker
	// before sign-in completes.
	r.Get("/categories", h.ServeCategories)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Post("/classify", h.HandleClassify)
		pr.Get("/mine", h.ServeMine)
		pr.Get("/{id}", h.ServeView)
		pr.Get("/{id}/history", h.ServeHistory)
	})

	return r
}
