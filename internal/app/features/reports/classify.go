package reports

import (
	"io"
	"net/http"

	"github.com/civicpulse/civicpulse/internal/app/system/classify"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
)

// maxClassifyBytes caps the image payload accepted for classification.
const maxClassifyBytes = 10 << 20

// HandleClassify suggests a category for an uploaded photo. When no
// inference backend is available the caller gets a manual-review
// prediction and should present the category list instead.
// POST /reports/classify
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxClassifyBytes)
	if err := r.ParseMultipartForm(maxClassifyBytes); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "multipart form with an 'image' file is required")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "could not read image")
		return
	}

	pred, err := h.Classifier.Classify(r.Context(), image)
	if err != nil {
		httpjson.Error(w, http.StatusBadGateway, "classification failed")
		return
	}

	httpjson.Write(w, http.StatusOK, pred)
}

// ServeCategories lists the supported civic problem categories so clients
// can render a picker when classification punts to manual review.
// GET /reports/categories
func (h *Handler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, map[string]any{
		"categories": classify.Categories(),
	})
}
