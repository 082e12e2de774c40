package worker

import (
	"net/http"

	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"go.uber.org/zap"
)

// HandleSetStatus updates the signed-in worker's availability.
// PUT /worker/status
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req statusRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	users := userstore.New(h.DB)
	if err := users.SetWorkerStatus(r.Context(), actor, req.Status); err != nil {
		// Invalid status values and non-worker accounts are caller errors.
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.Log.Info("worker status updated",
		zap.String("worker_id", actor.Hex()),
		zap.String("status", req.Status))
	httpjson.Write(w, http.StatusOK, map[string]string{"status": req.Status})
}
