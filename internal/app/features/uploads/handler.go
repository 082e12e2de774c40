// internal/app/features/uploads/handler.go
package uploads

import (
	"context"
	"io"
	"net/http"

	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/httpjson"
	"github.com/civicpulse/civicpulse/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// MaxUploadBytes caps report and donation media at 50MB.
const MaxUploadBytes = 50 << 20

// BlobStore is the slice of the storage backend the upload endpoint
// needs. *storage.Local and the S3 backend both satisfy it.
type BlobStore interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	URL(path string) string
}

// Handler accepts multipart media uploads for reports and donations.
type Handler struct {
	Storage BlobStore
	Log     *zap.Logger
}

// NewHandler constructs an uploads handler bound to a storage backend.
func NewHandler(store BlobStore, logger *zap.Logger) *Handler {
	return &Handler{Storage: store, Log: logger}
}

// uploadResponse is the JSON shape returned for a stored file.
type uploadResponse struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	FileName    string `json:"file_name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// HandleUpload stores one multipart file under the "file" field.
// POST /uploads
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		httpjson.Error(w, http.StatusRequestEntityTooLarge, "file exceeds the 50MB limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedContentType(contentType) {
		httpjson.Error(w, http.StatusBadRequest, "only image and video uploads are accepted")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	info, err := storeFile(ctx, h.Storage, header.Filename, file, header.Size, contentType)
	if err != nil {
		h.Log.Error("upload failed",
			zap.Error(err),
			zap.String("user_id", actor.Hex()),
			zap.String("file_name", header.Filename))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Log.Info("file uploaded",
		zap.String("user_id", actor.Hex()),
		zap.String("path", info.Path),
		zap.Int64("size", info.Size))

	httpjson.Write(w, http.StatusCreated, uploadResponse{
		Path:        info.Path,
		URL:         h.Storage.URL(info.Path),
		FileName:    info.FileName,
		Size:        info.Size,
		ContentType: info.ContentType,
	})
}

// allowedContentType restricts uploads to media the mobile and web apps
// actually produce.
func allowedContentType(ct string) bool {
	switch ct {
	case "image/jpeg", "image/png", "image/webp", "image/gif",
		"video/mp4", "video/webm", "video/quicktime":
		return true
	}
	return false
}
