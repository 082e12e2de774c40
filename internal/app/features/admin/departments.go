package admin

import (
	"errors"
	"net/http"

	catmapstore "github.com/civicpulse/civicpulse/internal/app/store/catmap"
	departmentstore "github.com/civicpulse/civicpulse/internal/app/store/departments"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/app/system/status"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeDepartments lists all departments.
// GET /admin/departments
func (h *Handler) ServeDepartments(w http.ResponseWriter, r *http.Request) {
	store := departmentstore.New(h.DB)
	list, err := store.List(r.Context())
	if err != nil {
		h.Log.Error("department list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]departmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDepartmentResponse(d))
	}
	httpjson.Write(w, http.StatusOK, out)
}

// HandleCreateDepartment creates a department.
// POST /admin/departments
func (h *Handler) HandleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	if req.Status != "" && !status.IsValid(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, `status must be "active"|"inactive"`)
		return
	}

	store := departmentstore.New(h.DB)
	created, err := store.Create(r.Context(), models.Department{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, departmentstore.ErrDuplicateDepartment) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("department create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusCreated, toDepartmentResponse(created))
}

// HandleUpdateDepartment updates a department's mutable fields.
// PUT /admin/departments/{id}
func (h *Handler) HandleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(idStr) {
		httpjson.Error(w, http.StatusBadRequest, "invalid department id")
		return
	}
	id, _ := primitive.ObjectIDFromHex(idStr)

	var req departmentRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if req.Status != "" && !status.IsValid(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, `status must be "active"|"inactive"`)
		return
	}

	store := departmentstore.New(h.DB)
	if _, err := store.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, departmentstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "department not found")
			return
		}
		h.Log.Error("department lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	err := store.Update(r.Context(), id, models.Department{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, departmentstore.ErrDuplicateDepartment) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("department update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	updated, err := store.GetByID(r.Context(), id)
	if err != nil {
		h.Log.Error("department reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, toDepartmentResponse(updated))
}

// ServeMappings lists the category→department mappings.
// GET /admin/category-mappings
func (h *Handler) ServeMappings(w http.ResponseWriter, r *http.Request) {
	store := catmapstore.New(h.DB)
	list, err := store.List(r.Context())
	if err != nil {
		h.Log.Error("mapping list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	type item struct {
		Category     string `json:"category"`
		DepartmentID string `json:"department_id"`
	}
	out := make([]item, 0, len(list))
	for _, m := range list {
		out = append(out, item{Category: m.Category, DepartmentID: m.DepartmentID.Hex()})
	}
	httpjson.Write(w, http.StatusOK, out)
}

// HandleSetMapping upserts a category→department mapping.
// PUT /admin/category-mappings
func (h *Handler) HandleSetMapping(w http.ResponseWriter, r *http.Request) {
	var req mappingRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	if !inputval.IsValidObjectID(req.DepartmentID) {
		httpjson.Error(w, http.StatusBadRequest, "invalid department id")
		return
	}
	deptID, _ := primitive.ObjectIDFromHex(req.DepartmentID)

	depts := departmentstore.New(h.DB)
	if _, err := depts.GetByID(r.Context(), deptID); err != nil {
		if errors.Is(err, departmentstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "department not found")
			return
		}
		h.Log.Error("department lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	store := catmapstore.New(h.DB)
	if err := store.Set(r.Context(), req.Category, deptID); err != nil {
		h.Log.Error("mapping upsert failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "mapping saved"})
}

// HandleDeleteMapping removes a category mapping.
// DELETE /admin/category-mappings/{category}
func (h *Handler) HandleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if category == "" {
		httpjson.Error(w, http.StatusBadRequest, "category is required")
		return
	}

	store := catmapstore.New(h.DB)
	n, err := store.Delete(r.Context(), category)
	if err != nil {
		h.Log.Error("mapping delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "mapping not found")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "mapping deleted"})
}
