package admin

import (
	"time"

	"github.com/civicpulse/civicpulse/internal/domain/models"
)

// approveRequest is the JSON payload for POST /admin/reports/{id}/approve.
type approveRequest struct {
	DepartmentID string `json:"department_id" validate:"required" label:"Department"`
	Priority     string `json:"priority" validate:"required" label:"Priority"`
	AdminNotes   string `json:"admin_notes" validate:"max=1000" label:"Admin notes"`
	BonusPoints  int    `json:"bonus_points"`
}

// rejectRequest is the JSON payload for POST /admin/reports/{id}/reject.
type rejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000" label:"Reason"`
}

// assignRequest is the JSON payload for POST /admin/reports/{id}/assign.
type assignRequest struct {
	WorkerID string `json:"worker_id" validate:"required" label:"Worker"`
	Notes    string `json:"notes" validate:"max=1000" label:"Notes"`
}

// departmentRequest is the JSON payload for department create/update.
type departmentRequest struct {
	Name        string `json:"name" validate:"required,max=100" label:"Name"`
	Description string `json:"description" validate:"max=500" label:"Description"`
	Icon        string `json:"icon" validate:"max=50" label:"Icon"`
	Color       string `json:"color" validate:"max=20" label:"Color"`
	Status      string `json:"status" label:"Status"`
}

// mappingRequest is the JSON payload for a category mapping upsert.
type mappingRequest struct {
	Category     string `json:"category" validate:"required,max=100" label:"Category"`
	DepartmentID string `json:"department_id" validate:"required" label:"Department"`
}

// patchReportRequest is the JSON payload for PATCH /admin/reports/{id}.
// Absent fields are left untouched.
type patchReportRequest struct {
	Priority        *string `json:"priority"`
	BonusPoints     *int    `json:"bonus_points"`
	AdminNotes      *string `json:"admin_notes"`
	DepartmentNotes *string `json:"department_notes"`
}

// staffRequest is the JSON payload for creating worker or department-head
// accounts.
type staffRequest struct {
	FullName     string `json:"full_name" validate:"required,min=2,max=100" label:"Full name"`
	Email        string `json:"email" validate:"required,email" label:"Email"`
	Password     string `json:"password" validate:"required,min=8,max=72" label:"Password"`
	Phone        string `json:"phone" validate:"max=20" label:"Phone"`
	Role         string `json:"role" validate:"required" label:"Role"`
	DepartmentID string `json:"department_id" label:"Department"`
}

// adjustPointsRequest is the JSON payload for manual point adjustments.
type adjustPointsRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason" validate:"max=500" label:"Reason"`
}

// departmentResponse is the JSON shape for a department.
type departmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDepartmentResponse(d models.Department) departmentResponse {
	return departmentResponse{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		Color:       d.Color,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
}

// statsResponse summarizes platform activity for the admin dashboard.
type statsResponse struct {
	Reports     map[string]int64 `json:"reports"`
	TotalUsers  int64            `json:"total_users"`
	Departments int64            `json:"departments"`
}
