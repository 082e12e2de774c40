package auth

import (
	"errors"
	"net/http"

	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	sysauth "github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeMe returns the signed-in user's profile.
// GET /auth/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := sysauth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	oid, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid session")
		return
	}

	users := userstore.New(h.DB)
	user, err := users.GetByID(r.Context(), oid)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		h.Log.Error("profile lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.Write(w, http.StatusOK, toUserResponse(user))
}
