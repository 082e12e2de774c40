package admin

import (
	"errors"
	"net/http"

	"github.com/civicpulse/civicpulse/internal/app/features/reports"
	catmapstore "github.com/civicpulse/civicpulse/internal/app/store/catmap"
	departmentstore "github.com/civicpulse/civicpulse/internal/app/store/departments"
	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	"github.com/civicpulse/civicpulse/internal/app/system/deptrouter"
	"github.com/civicpulse/civicpulse/internal/app/system/htmlsanitize"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ServeReports lists every report, newest first, with optional ?status=,
// ?category=, and ?city= filters.
// GET /admin/reports
func (h *Handler) ServeReports(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["status"] = s
	}
	if c := r.URL.Query().Get("category"); c != "" {
		filter["category"] = c
	}
	if c := r.URL.Query().Get("city"); c != "" {
		filter["city"] = c
	}

	store := reportstore.New(h.DB)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	list, err := store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("report list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponses(list))
}

// ServeDepartmentReports lists a department's open work in triage order.
// GET /admin/departments/{id}/reports
func (h *Handler) ServeDepartmentReports(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(raw) {
		httpjson.Error(w, http.StatusBadRequest, "invalid department id")
		return
	}
	deptID, _ := primitive.ObjectIDFromHex(raw)

	filter := bson.M{"department_id": deptID}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["status"] = s
	}

	store := reportstore.New(h.DB)
	list, err := store.Queue(r.Context(), filter)
	if err != nil {
		h.Log.Error("department report list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponses(list))
}

// HandleUpdateReport patches triage fields that do not change status:
// priority, bonus points, and notes.
// PATCH /admin/reports/{id}
func (h *Handler) HandleUpdateReport(w http.ResponseWriter, r *http.Request) {
	_, reportID, ok := h.command(w, r)
	if !ok {
		return
	}

	var req patchReportRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if req.Priority == nil && req.BonusPoints == nil && req.AdminNotes == nil && req.DepartmentNotes == nil {
		httpjson.Error(w, http.StatusBadRequest, "no fields to update")
		return
	}

	patch := reportstore.Patch{BonusPoints: req.BonusPoints}
	if req.Priority != nil {
		switch *req.Priority {
		case models.PriorityUrgent, models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		default:
			httpjson.Error(w, http.StatusBadRequest, "priority must be urgent, high, medium, or low")
			return
		}
		patch.Priority = req.Priority
	}
	if req.BonusPoints != nil && (*req.BonusPoints < 0 || *req.BonusPoints > 100) {
		httpjson.Error(w, http.StatusBadRequest, "bonus_points must be between 0 and 100")
		return
	}
	if req.AdminNotes != nil {
		clean := htmlsanitize.Text(*req.AdminNotes)
		patch.AdminNotes = &clean
	}
	if req.DepartmentNotes != nil {
		clean := htmlsanitize.Text(*req.DepartmentNotes)
		patch.DepartmentNotes = &clean
	}

	store := reportstore.New(h.DB)
	updated, err := store.Update(r.Context(), reportID, patch)
	if errors.Is(err, reportstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		h.Log.Error("report patch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponse(updated))
}

// HandleDeleteReport removes a report permanently. History rows are kept
// for the audit trail.
// DELETE /admin/reports/{id}
func (h *Handler) HandleDeleteReport(w http.ResponseWriter, r *http.Request) {
	actor, reportID, ok := h.command(w, r)
	if !ok {
		return
	}

	store := reportstore.New(h.DB)
	if err := store.Delete(r.Context(), reportID); err != nil {
		if errors.Is(err, reportstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "report not found")
			return
		}
		h.Log.Error("report delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Log.Info("report deleted",
		zap.String("report_id", reportID.Hex()),
		zap.String("actor_id", actor.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "report deleted"})
}

// ServeSuggestion runs the category router for a prospective category so
// the admin UI can preselect a department.
// GET /admin/suggest?category=...
func (h *Handler) ServeSuggestion(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		httpjson.Error(w, http.StatusBadRequest, "category is required")
		return
	}

	router := deptrouter.New(catmapstore.New(h.DB), departmentstore.New(h.DB), h.Log)
	sug, err := router.Suggest(r.Context(), category)
	if err != nil {
		h.Log.Error("suggestion failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{
		"department_id":   sug.DepartmentID.Hex(),
		"department_name": sug.DepartmentName,
		"matched_keyword": sug.Matched,
	})
}
