// Package geocode reverse-geocodes coordinates through a Nominatim-style
// endpoint, returning privacy-safe area-level components only (no house
// numbers or exact addresses).
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// userAgent is required by Nominatim's usage policy.
const userAgent = "CivicPulse/1.0"

// Address is the privacy-safe reverse-geocode result. Failures never reach
// the caller; the fallback carries coordinates in DisplayText.
type Address struct {
	Road        string `json:"road,omitempty"`
	Suburb      string `json:"suburb,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	DisplayText string `json:"display_text"`
}

// Resolver turns coordinates into an Address. The report feature depends on
// this interface so tests can stub it.
type Resolver interface {
	Reverse(ctx context.Context, lat, lon float64) Address
}

// Client is the HTTP-backed Resolver.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a Client. An empty baseURL selects the public Nominatim
// instance.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

// nominatim response shape (the fields we read).
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road          string `json:"road"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		Quarter       string `json:"quarter"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Municipality  string `json:"municipality"`
		State         string `json:"state"`
		Country       string `json:"country"`
		Postcode      string `json:"postcode"`
	} `json:"address"`
}

// Reverse resolves lat/lon to an area-level Address. Any failure degrades
// to the coordinate fallback; reverse geocoding is advisory and must never
// block report submission.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) Address {
	if !ValidCoordinates(lat, lon) {
		return fallback(lat, lon)
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("zoom", "16") // street-level, no house numbers
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return fallback(lat, lon)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("reverse geocode request failed", zap.Error(err))
		return fallback(lat, lon)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("reverse geocode non-200", zap.Int("status", resp.StatusCode))
		return fallback(lat, lon)
	}

	var rr reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		c.log.Warn("reverse geocode decode failed", zap.Error(err))
		return fallback(lat, lon)
	}

	a := rr.Address
	addr := Address{
		Road:     a.Road,
		Suburb:   first(a.Suburb, a.Neighbourhood, a.Quarter),
		City:     first(a.City, a.Town, a.Village, a.Municipality),
		State:    a.State,
		Country:  a.Country,
		Postcode: a.Postcode,
	}
	addr.DisplayText = displayText(addr)
	if addr.DisplayText == "" {
		addr.DisplayText = coordText(lat, lon)
	}
	return addr
}

// ValidCoordinates reports whether lat/lon are within bounds.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// displayText formats "Road, Suburb, City, State" from whatever is present.
func displayText(a Address) string {
	var parts []string
	switch {
	case a.Road != "" && a.Suburb != "" && a.Road != a.Suburb:
		parts = append(parts, a.Road+", "+a.Suburb)
	case a.Road != "":
		parts = append(parts, a.Road)
	case a.Suburb != "":
		parts = append(parts, a.Suburb)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func coordText(lat, lon float64) string {
	return fmt.Sprintf("%.4f°, %.4f°", lat, lon)
}

func fallback(lat, lon float64) Address {
	return Address{DisplayText: coordText(lat, lon)}
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
