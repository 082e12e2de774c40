package worker

import (
	"net/http"

	"github.com/civicpulse/civicpulse/internal/app/features/reports"
	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/htmlsanitize"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeTasks lists the signed-in worker's open tasks in triage order:
// urgent first, newest first within a tier. ?status=completed switches to
// the finished-work view, newest first.
// GET /worker/tasks
func (h *Handler) ServeTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	store := reportstore.New(h.DB)

	var list []models.Report
	var err error
	if r.URL.Query().Get("status") == models.StatusCompleted {
		list, err = store.ListByWorker(r.Context(), actor, models.StatusCompleted)
	} else {
		list, err = store.Queue(r.Context(), bson.M{
			"assigned_worker_id": actor,
			"status":             bson.M{"$in": []string{models.StatusAssigned, models.StatusInProgress}},
		})
	}
	if err != nil {
		h.Log.Error("task list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponses(list))
}

// HandleStart marks an assigned task as in progress.
// POST /worker/tasks/{id}/start
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	actor, reportID, ok := h.task(w, r)
	if !ok {
		return
	}

	updated, err := h.Engine.StartTask(r.Context(), reportID, actor)
	if err != nil {
		httpjson.EngineError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponse(updated))
}

// HandleComplete finishes an in-progress task, crediting the reporter.
// POST /worker/tasks/{id}/complete
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	actor, reportID, ok := h.task(w, r)
	if !ok {
		return
	}

	var req completeRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	updated, err := h.Engine.CompleteTask(r.Context(), lifecycle.CompleteInput{
		ReportID:    reportID,
		ActorID:     actor,
		WorkerNotes: htmlsanitize.Text(req.WorkerNotes),
	})
	if err != nil {
		httpjson.EngineError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponse(updated))
}

// task extracts the actor and the {id} URL param, writing the error
// response on failure.
func (h *Handler) task(w http.ResponseWriter, r *http.Request) (actor, reportID primitive.ObjectID, ok bool) {
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
