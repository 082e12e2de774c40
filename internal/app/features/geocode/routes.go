// internal/app/features/geocode/routes.go
package geocode

import "github.com/go-chi/chi/v5"

// Routes mounts the geocode endpoints. Public: the report form calls
// this before the citizen signs in.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/reverse", h.ServeReverse)

	return r
}
