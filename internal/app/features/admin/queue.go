package admin

import (
	"net/http"

	"github.com/civicpulse/civicpulse/internal/app/features/reports"
	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ServePending lists reports awaiting a decision, newest first.
// GET /admin/reports/pending
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	store := reportstore.New(h.DB)
	list, err := store.ListByStatus(r.Context(), models.StatusPending)
	if err != nil {
		h.Log.Error("pending list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponses(list))
}

// ServeQueue lists reports in triage order: urgent, high, medium, then
// the rest; newest first within a tier. Optional ?status= and ?category=
// filters.
// GET /admin/reports/queue
func (h *Handler) ServeQueue(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["status"] = s
	} else {
		filter["status"] = bson.M{"$in": []string{
			models.StatusApproved, models.StatusAssigned, models.StatusInProgress,
		}}
	}
	if c := r.URL.Query().Get("category"); c != "" {
		filter["category"] = c
	}

	store := reportstore.New(h.DB)
	list, err := store.Queue(r.Context(), filter)
	if err != nil {
		h.Log.Error("queue query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, reports.ToResponses(list))
}

// ServeStats returns report counts by status plus headline totals.
// GET /admin/stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := reportstore.New(h.DB)

	counts, err := store.CountByStatus(ctx)
	if err != nil {
		h.Log.Error("stats aggregation failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	users, err := h.DB.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		h.Log.Error("user count failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	depts, err := h.DB.Collection("departments").CountDocuments(ctx, bson.M{})
	if err != nil {
		h.Log.Error("department count failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.Write(w, http.StatusOK, statsResponse{
		Reports:     counts,
		TotalUsers:  users,
		Departments: depts,
	})
}
