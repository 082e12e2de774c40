package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/civicpulse/civicpulse/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// memStore records puts in memory.
type memStore struct {
	files map[string][]byte
	types map[string]string
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.files[path] = data
	if opts != nil {
		m.types[path] = opts.ContentType
	}
	return nil
}

func (m *memStore) URL(path string) string { return "/files/" + path }

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	store := newMemStore()
	h := NewHandler(store, zap.NewNop())

	body, contentType := multipartBody(t, "file", "pothole photo.jpg", "image/jpeg", []byte("jpegdata"))
	req := httptest.NewRequest("POST", "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req = testutil.WithUser(req, testutil.CitizenUser())
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status: got %d, body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Path        string `json:"path"`
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.Path, "media/") {
		t.Errorf("path: %q", resp.Path)
	}
	if strings.Contains(resp.Path, " ") {
		t.Errorf("path not sanitized: %q", resp.Path)
	}
	if resp.URL != "/files/"+resp.Path {
		t.Errorf("url: %q", resp.URL)
	}
	if string(store.files[resp.Path]) != "jpegdata" {
		t.Error("stored bytes do not match the upload")
	}
	if store.types[resp.Path] != "image/jpeg" {
		t.Errorf("stored content type: %q", store.types[resp.Path])
	}
}

func TestHandleUploadRejections(t *testing.T) {
	h := NewHandler(newMemStore(), zap.NewNop())

	// Anonymous.
	body, contentType := multipartBody(t, "file", "a.jpg", "image/jpeg", []byte("x"))
	req := httptest.NewRequest("POST", "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous upload: got %d, want 401", rec.Code)
	}

	// Wrong field name.
	body, contentType = multipartBody(t, "attachment", "a.jpg", "image/jpeg", []byte("x"))
	req = httptest.NewRequest("POST", "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req = testutil.WithUser(req, testutil.CitizenUser())
	rec = httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing file field: got %d, want 400", rec.Code)
	}

	// Disallowed content type.
	body, contentType = multipartBody(t, "file", "run.exe", "application/octet-stream", []byte("x"))
	req = httptest.NewRequest("POST", "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req = testutil.WithUser(req, testutil.CitizenUser())
	rec = httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("binary upload: got %d, want 400", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":          "photo.jpg",
		"../../etc/passwd":   "passwd",
		"my photo (1).png":   "my_photo__1_.png",
		"":                   "file",
		strings.Repeat("a", 120) + ".png": strings.Repeat("a", 96) + ".png",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
