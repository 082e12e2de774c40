package users

import (
	"net/http"
	"strconv"

	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/app/system/points"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// leaderboardEntry is the public JSON shape for a ranked citizen.
type leaderboardEntry struct {
	Rank             int    `json:"rank"`
	FullName         string `json:"full_name"`
	Points           int    `json:"points"`
	Badge            string `json:"badge"`
	ReportsSubmitted int    `json:"reports_submitted"`
}

// workerEntry is the JSON shape for a dispatchable worker.
type workerEntry struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id,omitempty"`
	WorkerStatus string `json:"worker_status"`
}

// ServeLeaderboard ranks active citizens by points. ?limit= caps the
// result, default 50.
// GET /users/leaderboard
func (h *Handler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 1 || n > 200 {
			httpjson.Error(w, http.StatusBadRequest, "limit must be 1-200")
			return
		}
		limit = n
	}

	store := userstore.New(h.DB)
	ranked, err := store.Leaderboard(r.Context(), limit)
	if err != nil {
		h.Log.Error("leaderboard query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]leaderboardEntry, 0, len(ranked))
	for i, u := range ranked {
		out = append(out, leaderboardEntry{
			Rank:             i + 1,
			FullName:         u.FullName,
			Points:           u.Points,
			Badge:            u.Badge,
			ReportsSubmitted: u.ReportsSubmitted,
		})
	}
	httpjson.Write(w, http.StatusOK, out)
}

// ServeWorkers lists active workers for assignment, available first.
// ?department_id= narrows to one department.
// GET /users/workers
func (h *Handler) ServeWorkers(w http.ResponseWriter, r *http.Request) {
	var deptID *primitive.ObjectID
	if s := r.URL.Query().Get("department_id"); s != "" {
		if !inputval.IsValidObjectID(s) {
			httpjson.Error(w, http.StatusBadRequest, "invalid department id")
			return
		}
		id, _ := primitive.ObjectIDFromHex(s)
		deptID = &id
	}

	store := userstore.New(h.DB)
	workers, err := store.ListWorkers(r.Context(), deptID)
	if err != nil {
		h.Log.Error("worker roster query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]workerEntry, 0, len(workers))
	for _, u := range workers {
		e := workerEntry{
			ID:           u.ID.Hex(),
			FullName:     u.FullName,
			Email:        u.Email,
			WorkerStatus: u.WorkerStatus,
		}
		if u.DepartmentID != nil {
			e.DepartmentID = u.DepartmentID.Hex()
		}
		out = append(out, e)
	}
	httpjson.Write(w, http.StatusOK, out)
}

// ServeBadgeThresholds exposes the badge ladder so clients can render
// progress bars without hard-coding the cutoffs.
// GET /users/badges
func (h *Handler) ServeBadgeThresholds(w http.ResponseWriter, r *http.Request) {
	type tier struct {
		Badge     string `json:"badge"`
		MinPoints int    `json:"min_points"`
	}
	ladder := points.Ladder()
	out := make([]tier, 0, len(ladder))
	for _, t := range ladder {
		out = append(out, tier{Badge: t.Badge, MinPoints: t.MinPoints})
	}
	httpjson.Write(w, http.StatusOK, out)
}
