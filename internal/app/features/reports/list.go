package reports

import (
	"errors"
	"net/http"

	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeMine lists the signed-in citizen's reports, newest first.
// GET /reports/mine
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	store := reportstore.New(h.DB)
	list, err := store.ListByUser(r.Context(), actor)
	if err != nil {
		h.Log.Error("report list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, ToResponses(list))
}

// ServeView returns one report. Citizens see only their own; staff roles
// see any.
// GET /reports/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	report, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	httpjson.Write(w, http.StatusOK, ToResponse(report))
}

// ServeHistory returns a report's transition ledger, newest first, with
// the same visibility rules as ServeView.
// GET /reports/{id}/history
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	report, ok := h.loadVisible(w, r)
	if !ok {
		return
	}

	entries, err := h.Engine.History(r.Context(), report.ID)
	if err != nil {
		httpjson.EngineError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, ToHistoryResponses(entries))
}

// loadVisible parses {id}, loads the report, and enforces that citizens
// only access their own submissions. Writes the error response itself.
func (h *Handler) loadVisible(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	su, okUser := auth.CurrentUser(r)
	if !okUser {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	idStr := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(idStr) {
		httpjson.Error(w, http.StatusBadRequest, "invalid report id")
		return nil, false
	}
	id, _ := primitive.ObjectIDFromHex(idStr)

	store := reportstore.New(h.DB)
	report, err := store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, reportstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "report not found")
			return nil, false
		}
		h.Log.Error("report lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}

	if su.Role == models.RoleCitizen && report.UserID.Hex() != su.ID {
		httpjson.Error(w, http.StatusForbidden, "not your report")
		return nil, false
	}
	return report, true
}
