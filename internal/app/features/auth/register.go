package auth

import (
	"errors"
	"net/http"

	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	sysauth "github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/authutil"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"go.uber.org/zap"
)

// HandleRegister creates a citizen account and signs it in.
// POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
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
		Role:         models.RoleCitizen,
		PasswordHash: hash,
		AuthMethod:   "password",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("user create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.SM.SignIn(w, r, &sysauth.SessionUser{
		ID:    created.ID.Hex(),
		Name:  created.FullName,
		Email: created.Email,
		Role:  created.Role,
	}); err != nil {
		h.Log.Warn("session write failed after registration", zap.Error(err))
	}

	h.Log.Info("citizen registered", zap.String("user_id", created.ID.Hex()))
	httpjson.Write(w, http.StatusCreated, toUserResponse(&created))
}
