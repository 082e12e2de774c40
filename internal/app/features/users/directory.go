package users

import (
	"errors"
	"net/http"

	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeUsers lists every account for the admin console. ?email= looks up
// one account; ?role= narrows by role.
// GET /users
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	store := userstore.New(h.DB)

	if email := r.URL.Query().Get("email"); email != "" {
		u, err := store.GetByEmail(r.Context(), email)
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			h.Log.Error("user lookup failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		httpjson.Write(w, http.StatusOK, []models.User{*u})
		return
	}

	list, err := store.List(r.Context())
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if role := r.URL.Query().Get("role"); role != "" {
		filtered := list[:0]
		for _, u := range list {
			if u.Role == role {
				filtered = append(filtered, u)
			}
		}
		list = filtered
	}

	httpjson.Write(w, http.StatusOK, list)
}

// ServeUser returns one account by id.
// GET /users/{id}
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(raw) {
		httpjson.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	id, _ := primitive.ObjectIDFromHex(raw)

	store := userstore.New(h.DB)
	u, err := store.GetByID(r.Context(), id)
	if errors.Is(err, userstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.Log.Error("user lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}
