// internal/app/features/geocode/handler.go
package geocode

import (
	"net/http"
	"strconv"

	"github.com/civicpulse/civicpulse/internal/app/system/geocode"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Handler exposes reverse geocoding to the citizen app so report forms
// can prefill a human-readable location.
type Handler struct {
	Resolver geocode.Resolver
	Log      *zap.Logger
}

// NewHandler constructs a geocode handler bound to a resolver.
func NewHandler(resolver geocode.Resolver, logger *zap.Logger) *Handler {
	return &Handler{Resolver: resolver, Log: logger}
}

// ServeReverse resolves ?lat=&lon= to an area-level address.
// GET /geocode/reverse
func (h *Handler) ServeReverse(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		httpjson.Error(w, http.StatusBadRequest, "lat and lon are required numbers")
		return
	}
	if !geocode.ValidCoordinates(lat, lon) {
		httpjson.Error(w, http.StatusBadRequest, "coordinates out of range")
		return
	}

	addr := h.Resolver.Reverse(r.Context(), lat, lon)
	httpjson.Write(w, http.StatusOK, addr)
}
