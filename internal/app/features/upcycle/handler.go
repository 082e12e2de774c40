// internal/app/features/upcycle/handler.go
package upcycle

import (
	"net/http"
	"strings"

	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Handler answers reuse questions from the built-in idea catalog.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an upcycle handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// queryRequest is the JSON payload for POST /upcycle/query.
type queryRequest struct {
	Message string `json:"message"`
}

// queryResponse pairs the conversational reply with the full idea cards.
type queryResponse struct {
	Reply string `json:"reply"`
	Ideas []Idea `json:"ideas"`
}

// HandleQuery ranks the idea catalog against a free-text question.
// POST /upcycle/query
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		httpjson.Error(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	ideas := match(message)

	h.Log.Debug("upcycle query answered",
		zap.String("message", message),
		zap.Int("ideas", len(ideas)))

	httpjson.Write(w, http.StatusOK, queryResponse{
		Reply: composeReply(ideas),
		Ideas: ideas,
	})
}

// ServeIdeas lists the whole catalog, optionally filtered by ?category=.
// GET /upcycle/ideas
func (h *Handler) ServeIdeas(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		httpjson.Write(w, http.StatusOK, knowledgeBase)
		return
	}

	out := make([]Idea, 0, len(knowledgeBase))
	for _, idea := range knowledgeBase {
		if idea.Category == category {
			out = append(out, idea)
		}
	}
	httpjson.Write(w, http.StatusOK, out)
}
