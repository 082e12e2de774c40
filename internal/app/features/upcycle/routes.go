// internal/app/features/upcycle/routes.go
package upcycle

import "github.com/go-chi/chi/v5"

// Routes mounts the upcycle endpoints. They are public: the citizen app
// shows the chatbot before sign-in.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/query", h.HandleQuery)
	r.Get("/ideas", h.ServeIdeas)

	return r
}
