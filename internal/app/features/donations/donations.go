package donations

import (
	"errors"
	"net/http"

	donationstore "github.com/civicpulse/civicpulse/internal/app/store/donations"
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/htmlsanitize"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreate lists an item for donation.
// POST /donations
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.Error(w, http.StatusBadRequest, res.First())
		return
	}
	if req.ImageURL != "" && !inputval.IsValidHTTPURL(req.ImageURL) {
		httpjson.Error(w, http.StatusBadRequest, "image_url must be an http(s) URL")
		return
	}

	store := donationstore.New(h.DB)
	created, err := store.Create(r.Context(), models.Donation{
		UserID:       actor,
		Title:        htmlsanitize.Text(req.Title),
		Description:  htmlsanitize.Text(req.Description),
		Category:     htmlsanitize.Text(req.Category),
		Condition:    htmlsanitize.Text(req.Condition),
		LocationText: htmlsanitize.Text(req.LocationText),
		City:         htmlsanitize.Text(req.City),
		State:        htmlsanitize.Text(req.State),
		Country:      htmlsanitize.Text(req.Country),
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.Log.Error("donation create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Log.Info("donation listed",
		zap.String("donation_id", created.ID.Hex()),
		zap.String("user_id", actor.Hex()))
	httpjson.Write(w, http.StatusCreated, toResponse(&created))
}

// ServeAvailable lists unclaimed donations, optionally filtered by
// ?category=.
// GET /donations
func (h *Handler) ServeAvailable(w http.ResponseWriter, r *http.Request) {
	store := donationstore.New(h.DB)
	list, err := store.ListAvailable(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.Log.Error("donation list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, toResponses(list))
}

// ServeMine lists the signed-in user's own listings plus items they have
// claimed.
// GET /donations/mine
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	store := donationstore.New(h.DB)
	listed, err := store.ListByUser(r.Context(), actor)
	if err != nil {
		h.Log.Error("own donation list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	claimed, err := store.ListClaimedBy(r.Context(), actor)
	if err != nil {
		h.Log.Error("claimed donation list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string][]donationResponse{
		"listed":  toResponses(listed),
		"claimed": toResponses(claimed),
	})
}

// HandleClaim claims an available donation for pickup. Claiming your own
// listing is refused, as is claiming an already-claimed item.
// POST /donations/{id}/claim
func (h *Handler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	actor, donationID, ok := h.item(w, r)
	if !ok {
		return
	}

	store := donationstore.New(h.DB)
	claimed, err := store.Claim(r.Context(), donationID, actor)
	if err != nil {
		switch {
		case errors.Is(err, donationstore.ErrNotFound):
			httpjson.Error(w, http.StatusNotFound, "donation not found")
		case errors.Is(err, donationstore.ErrOwnDonation):
			httpjson.Error(w, http.StatusBadRequest, "you cannot claim your own donation")
		case errors.Is(err, donationstore.ErrAlreadyClaimed):
			httpjson.Error(w, http.StatusConflict, "donation has already been claimed")
		default:
			h.Log.Error("donation claim failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.Log.Info("donation claimed",
		zap.String("donation_id", donationID.Hex()),
		zap.String("claimed_by", actor.Hex()))
	httpjson.Write(w, http.StatusOK, toResponse(claimed))
}

// ServeItem returns one listing by id.
// GET /donations/{id}
func (h *Handler) ServeItem(w http.ResponseWriter, r *http.Request) {
	_, donationID, ok := h.item(w, r)
	if !ok {
		return
	}

	store := donationstore.New(h.DB)
	d, err := store.GetByID(r.Context(), donationID)
	if errors.Is(err, donationstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "donation not found")
		return
	}
	if err != nil {
		h.Log.Error("donation lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, toResponse(d))
}

// HandleDelete withdraws the signed-in user's own unclaimed listing.
// DELETE /donations/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, donationID, ok := h.item(w, r)
	if !ok {
		return
	}

	store := donationstore.New(h.DB)
	if err := store.Delete(r.Context(), donationID, actor); err != nil {
		if errors.Is(err, donationstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "donation not found")
			return
		}
		h.Log.Error("donation delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "donation removed"})
}

// item extracts the actor and the {id} URL param, writing the error
// response on failure.
func (h *Handler) item(w http.ResponseWriter, r *http.Request) (actor, donationID primitive.ObjectID, ok bool) {
	actor, okActor := auth.ActorID(r)
	if !okActor {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	idStr := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(idStr) {
		httpjson.Error(w, http.StatusBadRequest, "invalid donation id")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	donationID, _ = primitive.ObjectIDFromHex(idStr)
	return actor, donationID, true
}
