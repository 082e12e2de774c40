package auth

import "github.com/civicpulse/civicpulse/internal/domain/models"

// registerRequest is the JSON payload for POST /auth/register.
type registerRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100" label:"Full name"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required,min=8,max=72" label:"Password"`
	Phone    string `json:"phone" validate:"max=20" label:"Phone"`
}

// loginRequest is the JSON payload for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// userResponse is the sanitized user payload returned by auth endpoints.
type userResponse struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Role             string `json:"role"`
	Points           int    `json:"points"`
	Badge            string `json:"badge"`
	ReportsSubmitted int    `json:"reports_submitted"`
	WorkerStatus     string `json:"worker_status,omitempty"`
	DepartmentID     string `json:"department_id,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	resp := userResponse{
		ID:               u.ID.Hex(),
		FullName:         u.FullName,
		Email:            u.Email,
		Phone:            u.Phone,
		Role:             u.Role,
		Points:           u.Points,
		Badge:            u.Badge,
		ReportsSubmitted: u.ReportsSubmitted,
		WorkerStatus:     u.WorkerStatus,
	}
	if u.DepartmentID != nil {
		resp.DepartmentID = u.DepartmentID.Hex()
	}
	return resp
}
