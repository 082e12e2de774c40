// internal/app/features/worker/routes.go
package worker

import (
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all worker routes under the base path
// (typically "/worker" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(wr chi.Router) {
		wr.Use(sm.RequireSignedIn)
		wr.Use(sm.RequireRole("worker"))

		wr.Get("/tasks", h.ServeTasks)
		wr.Get("/stats", h.ServeStats)
		wr.Post("/tasks/{id}/start", h.HandleStart)
		wr.Post("/tasks/{id}/complete", h.HandleComplete)
		wr.Post("/tasks/{id}/notes", h.HandleAddNote)
		wr.Put("/status", h.HandleSetStatus)
	})

	return r
}
