package admin

import (
	"net/http"

	"github.com/civicpulse/civicpulse/internal/app/features/reports"
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/htmlsanitize"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleApprove approves a pending report, binding department and priority.
// POST /admin/reports/{id}/approve
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	actor, reportID, ok := h.command(w, r)
	if !ok {
		return
	}

	var req approveRequest
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

	updated, err := h.Engine.ApproveReport(r.Context(), lifecycle.ApproveInput{
		ReportID:     reportID,
		ActorID:      actor,
		DepartmentID: deptID,
		Priority:     req.Priority,
		AdminNotes:   htmlsanitize.Text(req.AdminNotes),
		BonusPoints:  req.BonusPoints,
	})
	if err != nil {
		httpjson.EngineError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponse(updated))
}

// HandleReject rejects a pending report with a reason.
// POST /admin/reports/{id}/reject
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	actor, reportID, ok := h.command(w, r)
	if !ok {
		return
	}

	var req rejectRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	updated, err := h.Engine.RejectReport(r.Context(), lifecycle.RejectInput{
		ReportID: reportID,
		ActorID:  actor,
		Reason:   htmlsanitize.Text(req.Reason),
	})
	if err != nil {
		httpjson.EngineError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponse(updated))
}

// HandleAssign assigns or reassigns a worker to an approved report.
// POST /admin/reports/{id}/assign
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	actor, reportID, ok := h.command(w, r)
	if !ok {
		return
	}

	var req assignRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	if !inputval.IsValidObjectID(req.WorkerID) {
		httpjson.Error(w, http.StatusBadRequest, "invalid worker id")
		return
	}
	workerID, _ := primitive.ObjectIDFromHex(req.WorkerID)

	updated, err := h.Engine.AssignWorker(r.Context(), lifecycle.AssignInput{
		ReportID: reportID,
		ActorID:  actor,
		WorkerID: workerID,
		Notes:    htmlsanitize.Text(req.Notes),
	})
	if err != nil {
		httpjson.EngineError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponse(updated))
}

// command extracts the actor and the {id} URL param, writing the error
// response on failure.
func (h *Handler) command(w http.ResponseWriter, r *http.Request) (actor, reportID primitive.ObjectID, ok bool) {
	actor, okActor := auth.ActorID(r)
	if !okActor {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	idStr := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(idStr) {
		httpjson.Error(w, http.StatusBadRequest, "invalid report id")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	reportID, _ = primitive.ObjectIDFromHex(idStr)
	return actor, reportID, true
}
