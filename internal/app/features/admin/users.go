package admin

import (
	"errors"
	"net/http"

	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	"github.com/civicpulse/civicpulse/internal/app/system/authutil"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreateStaff creates a worker or department-head account.
// POST /admin/users
func (h *Handler) HandleCreateStaff(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	if req.Role != models.RoleWorker && req.Role != models.RoleDepartment && req.Role != models.RoleAdmin {
		httpjson.Error(w, http.StatusBadRequest, `role must be "worker"|"department"|"admin"`)
		return
	}

	var deptID *primitive.ObjectID
	if req.DepartmentID != "" {
		if !inputval.IsValidObjectID(req.DepartmentID) {
			httpjson.Error(w, http.StatusBadRequest, "invalid department id")
			return
		}
		id, _ := primitive.ObjectIDFromHex(req.DepartmentID)
		deptID = &id
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hashing failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	users := userstore.New(h.DB)
	created, err := users.Create(r.Context(), models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		DepartmentID: deptID,
		PasswordHash: hash,
		AuthMethod:   "password",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		// Role/department validation failures from the store are 400s.
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.Log.Info("staff account created",
		zap.String("user_id", created.ID.Hex()),
		zap.String("role", created.Role))
	httpjson.Write(w, http.StatusCreated, map[string]string{
		"id":    created.ID.Hex(),
		"email": created.Email,
		"role":  created.Role,
	})
}

// HandleAdjustPoints manually adjusts a citizen's points; the badge is
// recomputed in the same write.
// POST /admin/users/{id}/points
func (h *Handler) HandleAdjustPoints(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(idStr) {
		httpjson.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	id, _ := primitive.ObjectIDFromHex(idStr)

	var req adjustPointsRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if req.Delta == 0 {
		httpjson.Error(w, http.StatusBadRequest, "delta must be non-zero")
		return
	}

	users := userstore.New(h.DB)
	updated, err := users.AwardPoints(r.Context(), id, req.Delta)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("point adjustment failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Log.Info("points adjusted",
		zap.String("user_id", id.Hex()),
		zap.Int("delta", req.Delta),
		zap.String("reason", req.Reason))
	httpjson.Write(w, http.StatusOK, map[string]any{
		"id":     updated.ID.Hex(),
		"points": updated.Points,
		"badge":  updated.Badge,
	})
}
