// Package classify defines the image-classification capability used to
// suggest a report category from an uploaded photo.
//
// The hosted inference API this shipped with was discontinued, so the only
// implementation is Unavailable, which always tells the caller to pick a
// category manually. The interface stays so a replacement backend can slot
// in without touching the report flow; no core logic depends on
// classification succeeding.
package classify

import "context"

// Prediction is the result of classifying one image.
type Prediction struct {
	Category   string  `json:"predicted_category"`
	Confidence float64 `json:"confidence"`
	// ManualReview is set when the caller should ask the user to choose
	// a category themselves.
	ManualReview bool   `json:"should_manual_review"`
	Message      string `json:"message,omitempty"`
}

// Classifier suggests a civic-issue category for an image.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (Prediction, error)
	// Available reports whether the backend can currently classify.
	Available() bool
}

// Categories lists the supported civic problem categories.
func Categories() []string {
	return []string{
		"Garbage on Open Spaces",
		"Road Damage",
		"Drainage Issues",
		"Street Light Problem",
		"Water Leakage",
		"Pothole",
		"Accident Spot",
		"Broken Bench",
		"Park Issues",
		"Other",
	}
}

// Unavailable is the stand-in Classifier used while no inference backend
// exists.
type Unavailable struct{}

// Available always returns false.
func (Unavailable) Available() bool { return false }

// Classify returns the manual-review fallback without touching the image.
func (Unavailable) Classify(ctx context.Context, image []byte) (Prediction, error) {
	return Prediction{
		Category:     "Other",
		Confidence:   0,
		ManualReview: true,
		Message:      "Image classification is unavailable; please select a category manually.",
	}, nil
}
