package auth

import (
	"errors"
	"net/http"

	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	sysauth "github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/authutil"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/app/system/status"
	"go.uber.org/zap"
)

// HandleLogin verifies credentials and opens a session.
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}

	if allowed, reason := h.Limits.Check(r, req.Email); !allowed {
		httpjson.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	users := userstore.New(h.DB)
	user, err := users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if user.Status != status.Active {
		httpjson.Error(w, http.StatusForbidden, "account is disabled")
		return
	}
	if user.PasswordHash == "" || !authutil.CheckPassword(req.Password, user.PasswordHash) {
		h.Log.Info("login failed", zap.String("email", user.Email))
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	su := &sysauth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}
	if user.DepartmentID != nil {
		su.DepartmentID = user.DepartmentID.Hex()
	}
	if err := h.SM.SignIn(w, r, su); err != nil {
		h.Log.Error("session write failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Limits.ResetEmail(req.Email)

	h.Log.Info("login succeeded",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role))
	httpjson.Write(w, http.StatusOK, toUserResponse(user))
}

// HandleLogout clears the session.
// POST /auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SM.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "signed out"})
}
