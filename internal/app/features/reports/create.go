package reports

import (
	"net/http"

	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/htmlsanitize"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/inputval"
	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
)

// HandleCreate submits a new report for the signed-in citizen.
// POST /reports
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
	if req.VideoURL != "" && !inputval.IsValidHTTPURL(req.VideoURL) {
		httpjson.Error(w, http.StatusBadRequest, "video_url must be an http(s) URL")
		return
	}

	created, err := h.Engine.CreateReport(r.Context(), lifecycle.CreateReportInput{
		UserID:       actor,
		Category:     htmlsanitize.Text(req.Category),
		Description:  htmlsanitize.Text(req.Description),
		LocationText: htmlsanitize.Text(req.LocationText),
		City:         htmlsanitize.Text(req.City),
		State:        htmlsanitize.Text(req.State),
		Country:      htmlsanitize.Text(req.Country),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ImageURL:     req.ImageURL,
		VideoURL:     req.VideoURL,
	})
	if err != nil {
		httpjson.EngineError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusCreated, ToResponse(created))
}
