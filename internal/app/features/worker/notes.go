package worker

import (
	"errors"
	"net/http"

	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	"github.com/civicpulse/civicpulse/internal/app/system/htmlsanitize"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"go.uber.org/zap"
)

// HandleAddNote updates the worker notes on a task without changing its
// status, for progress updates before completion.
// POST /worker/tasks/{id}/notes
func (h *Handler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	actor, reportID, ok := h.task(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	store := reportstore.New(h.DB)
	report, err := store.GetByID(r.Context(), reportID)
	if errors.Is(err, reportstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		h.Log.Error("report lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if report.AssignedWorkerID == nil || *report.AssignedWorkerID != actor {
		httpjson.Error(w, http.StatusForbidden, "task belongs to another worker")
		return
	}

	if err := store.SetNotes(r.Context(), reportID, "worker_notes", htmlsanitize.Text(req.Notes)); err != nil {
		h.Log.Error("note update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "note saved"})
}
