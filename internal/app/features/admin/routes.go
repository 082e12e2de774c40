// internal/app/features/admin/routes.go
package admin

import (
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all admin routes under the base path
// (typically "/admin" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Worker assignment is shared with department heads so they can
	// dispatch within their own department.
	r.Group(func(dr chi.Router) {
		dr.Use(sm.RequireSignedIn)
		dr.Use(sm.RequireRole("admin", "department"))

		dr.Get("/queue", h.ServeQueue)
		dr.Get("/departments/{id}/reports", h.ServeDepartmentReports)
		dr.Post("/reports/{id}/assign", h.HandleAssign)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireSignedIn)
		ar.Use(sm.RequireRole("admin"))

		ar.Get("/pending", h.ServePending)
		ar.Get("/stats", h.ServeStats)
		ar.Get("/suggest", h.ServeSuggestion)
		ar.Get("/reports", h.ServeReports)
		ar.Post("/reports/{id}/approve", h.HandleApprove)
		ar.Post("/reports/{id}/reject", h.HandleReject)
		ar.Patch("/reports/{id}", h.HandleUpdateReport)
		ar.Delete("/reports/{id}", h.HandleDeleteReport)

		ar.Get("/departments", h.ServeDepartments)
		ar.Post("/departments", h.HandleCreateDepartment)
		ar.Put("/departments/{id}", h.HandleUpdateDepartment)

		ar.Get("/mappings", h.ServeMappings)
		ar.Put("/mappings", h.HandleSetMapping)
		ar.Delete("/mappings/{category}", h.HandleDeleteMapping)

		ar.Post("/users", h.HandleCreateStaff)
		ar.Post("/users/{id}/points", h.HandleAdjustPoints)
	})

	return r
}
