package reports

import (
	"time"

	"github.com/civicpulse/civicpulse/internal/domain/models"
)

// createRequest is the JSON payload for POST /reports.
type createRequest struct {
	Category     string  `json:"category" validate:"required,max=100" label:"Category"`
	Description  string  `json:"description" validate:"required,max=2000" label:"Description"`
	LocationText string  `json:"location_text" validate:"max=300" label:"Location"`
	City         string  `json:"city" validate:"max=100" label:"City"`
	State        string  `json:"state" validate:"max=100" label:"State"`
	Country      string  `json:"country" validate:"max=100" label:"Country"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ImageURL     string  `json:"image_url" validate:"max=500" label:"Image URL"`
	VideoURL     string  `json:"video_url" validate:"max=500" label:"Video URL"`
}

// Response is the JSON shape for a report. Exported because the admin and
// worker features return the same shape.
type Response struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	LocationText string  `json:"location_text,omitempty"`
	City         string  `json:"city,omitempty"`
	State        string  `json:"state,omitempty"`
	Country      string  `json:"country,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
	VideoURL     string  `json:"video_url,omitempty"`

	Status      string `json:"status"`
	Points      int    `json:"points"`
	BonusPoints int    `json:"bonus_points,omitempty"`
	Priority    string `json:"priority,omitempty"`

	SuggestedDepartmentID string `json:"suggested_department_id,omitempty"`
	DepartmentID          string `json:"department_id,omitempty"`
	AssignedWorkerID      string `json:"assigned_worker_id,omitempty"`

	AdminNotes      string `json:"admin_notes,omitempty"`
	DepartmentNotes string `json:"department_notes,omitempty"`
	WorkerNotes     string `json:"worker_notes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ToResponse converts a report model to its JSON shape.
func ToResponse(r *models.Report) Response {
	resp := Response{
		ID:           r.ID.Hex(),
		UserID:       r.UserID.Hex(),
		Category:     r.Category,
		Description:  r.Description,
		LocationText: r.LocationText,
		City:         r.City,
		State:        r.State,
		Country:      r.Country,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		ImageURL:     r.ImageURL,
		VideoURL:     r.VideoURL,
		Status:       r.Status,
		Points:       r.Points,
		BonusPoints:  r.BonusPoints,
		Priority:     r.Priority,

		AdminNotes:      r.AdminNotes,
		DepartmentNotes: r.DepartmentNotes,
		WorkerNotes:     r.WorkerNotes,

		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		ApprovedAt:  r.ApprovedAt,
		CompletedAt: r.CompletedAt,
	}
	if r.SuggestedDepartmentID != nil {
		resp.SuggestedDepartmentID = r.SuggestedDepartmentID.Hex()
	}
	if r.DepartmentID != nil {
		resp.DepartmentID = r.DepartmentID.Hex()
	}
	if r.AssignedWorkerID != nil {
		resp.AssignedWorkerID = r.AssignedWorkerID.Hex()
	}
	return resp
}

// ToResponses converts a slice of report models, never returning nil so
// empty lists encode as [].
func ToResponses(rs []models.Report) []Response {
	out := make([]Response, 0, len(rs))
	for i := range rs {
		out = append(out, ToResponse(&rs[i]))
	}
	return out
}

// HistoryResponse is the JSON shape for one ledger entry.
type HistoryResponse struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	ChangedBy string    `json:"changed_by"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Action    string    `json:"action"`
	Notes     string    `json:"notes,omitempty"`
	NewDeptID string    `json:"new_department_id,omitempty"`
	NewWorker string    `json:"new_worker_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToHistoryResponses converts ledger entries to their JSON shape.
func ToHistoryResponses(entries []models.ReportHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, h := range entries {
		item := HistoryResponse{
			ID:        h.ID.Hex(),
			ReportID:  h.ReportID.Hex(),
			ChangedBy: h.ChangedBy.Hex(),
			OldStatus: h.OldStatus,
			NewStatus: h.NewStatus,
			Action:    h.Action,
			Notes:     h.Notes,
			CreatedAt: h.CreatedAt,
		}
		if h.NewDeptID != nil {
			item.NewDeptID = h.NewDeptID.Hex()
		}
		if h.NewWorker != nil {
			item.NewWorker = h.NewWorker.Hex()
		}
		out = append(out, item)
	}
	return out
}
