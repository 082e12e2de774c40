package worker

import (
	"net/http"

	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// workerStats summarizes the signed-in worker's workload.
type workerStats struct {
	Assigned   int64 `json:"assigned"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

// ServeStats returns task counts for the signed-in worker.
// GET /worker/stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	store := reportstore.New(h.DB)
	var stats workerStats
	for _, c := range []struct {
		status string
		dst    *int64
	}{
		{models.StatusAssigned, &stats.Assigned},
		{models.StatusInProgress, &stats.InProgress},
		{models.StatusCompleted, &stats.Completed},
	} {
		n, err := store.Count(r.Context(), bson.M{
			"assigned_worker_id": actor,
			"status":             c.status,
		})
		if err != nil {
			h.Log.Error("task count failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		*c.dst = n
	}

	httpjson.Write(w, http.StatusOK, stats)
}
