package geocode_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	feature "github.com/civicpulse/civicpulse/internal/app/features/geocode"
	"github.com/civicpulse/civicpulse/internal/app/system/geocode"
	"go.uber.org/zap"
)

// stubResolver returns a canned address.
type stubResolver struct {
	addr geocode.Address
	lat  float64
	lon  float64
}

func (s *stubResolver) Reverse(ctx context.Context, lat, lon float64) geocode.Address {
	s.lat, s.lon = lat, lon
	return s.addr
}

func TestServeReverse(t *testing.T) {
	stub := &stubResolver{addr: geocode.Address{
		City:        "Springfield",
		State:       "Oregon",
		DisplayText: "Main St, Springfield, Oregon",
	}}
	h := feature.NewHandler(stub, zap.NewNop())

	req := httptest.NewRequest("GET", "/geocode/reverse?lat=44.05&lon=-123.02", nil)
	rec := httptest.NewRecorder()
	h.ServeReverse(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("reverse status: got %d, body=%s", rec.Code, rec.Body.String())
	}
	if stub.lat != 44.05 || stub.lon != -123.02 {
		t.Errorf("resolver called with lat=%v lon=%v", stub.lat, stub.lon)
	}

	var addr geocode.Address
	if err := json.NewDecoder(rec.Body).Decode(&addr); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if addr.City != "Springfield" {
		t.Errorf("city: got %q", addr.City)
	}
}

func TestServeReverseValidation(t *testing.T) {
	h := feature.NewHandler(&stubResolver{}, zap.NewNop())

	for _, target := range []string{
		"/geocode/reverse",
		"/geocode/reverse?lat=abc&lon=1",
		"/geocode/reverse?lat=91&lon=0",
		"/geocode/reverse?lat=0&lon=181",
	} {
		req := httptest.NewRequest("GET", target, nil)
		rec := httptest.NewRecorder()
		h.ServeReverse(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", target, rec.Code)
		}
	}
}
