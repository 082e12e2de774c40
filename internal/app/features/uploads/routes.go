// internal/app/features/uploads/routes.go
package uploads

import (
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the upload endpoint under the base path
// (typically "/uploads" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ur chi.Router) {
		ur.Use(sm.RequireSignedIn)

		ur.Post("/", h.HandleUpload)
	})

	return r
}
