package donations

import (
	"time"

	"github.com/civicpulse/civicpulse/internal/domain/models"
)

// createRequest is the JSON payload for POST /donations.
type createRequest struct {
	Title        string `json:"title" validate:"required,min=2,max=200" label:"Title"`
	Description  string `json:"description" validate:"max=2000" label:"Description"`
	Category     string `json:"category" validate:"required,max=100" label:"Category"`
	Condition    string `json:"condition" validate:"required,max=50" label:"Condition"`
	LocationText string `json:"location_text" validate:"required,max=300" label:"Location"`
	City         string `json:"city" validate:"max=100" label:"City"`
	State        string `json:"state" validate:"max=100" label:"State"`
	Country      string `json:"country" validate:"max=100" label:"Country"`
	ImageURL     string `json:"image_url" validate:"max=2048" label:"Image URL"`
}

// donationResponse is the JSON shape for a donation.
type donationResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category"`
	Condition    string     `json:"condition"`
	LocationText string     `json:"location_text"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	Country      string     `json:"country,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	Status       string     `json:"status"`
	ClaimedBy    string     `json:"claimed_by,omitempty"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toResponse(d *models.Donation) donationResponse {
	resp := donationResponse{
		ID:           d.ID.Hex(),
		UserID:       d.UserID.Hex(),
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		Condition:    d.Condition,
		LocationText: d.LocationText,
		City:         d.City,
		State:        d.State,
		Country:      d.Country,
		ImageURL:     d.ImageURL,
		Status:       d.Status,
		ClaimedAt:    d.ClaimedAt,
		CreatedAt:    d.CreatedAt,
	}
	if d.ClaimedBy != nil {
		resp.ClaimedBy = d.ClaimedBy.Hex()
	}
	return resp
}

func toResponses(list []models.Donation) []donationResponse {
	out := make([]donationResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	return out
}
