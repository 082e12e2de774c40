package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report statuses. The only legal edges are
// pending→approved, pending→rejected, approved/assigned→assigned,
// assigned→in-progress, in-progress→completed.
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusAssigned   = "assigned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// Priority values set by the admin at approval time.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// DefaultReportPoints is the base reward a citizen earns when their report
// is completed.
const DefaultReportPoints = 3

// Report is a civic issue submitted by a citizen.
//
// SuggestedDepartmentID is advisory, set from the category mapping at
// creation; DepartmentID is binding and set by the admin at approval.
// AssignedWorkerID is set only while status is assigned/in-progress/completed.
type Report struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Category string             `bson:"category" json:"category"`

	Description  string  `bson:"description" json:"description"`
	LocationText string  `bson:"location_text" json:"location_text"`
	City         string  `bson:"city,omitempty" json:"city,omitempty"`
	State        string  `bson:"state,omitempty" json:"state,omitempty"`
	Country      string  `bson:"country,omitempty" json:"country,omitempty"`
	Latitude     float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude    float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`

	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	VideoURL string `bson:"video_url,omitempty" json:"video_url,omitempty"`

	Status      string `bson:"status" json:"status"`
	Points      int    `bson:"points" json:"points"`
	BonusPoints int    `bson:"bonus_points" json:"bonus_points"`
	Priority    string `bson:"priority,omitempty" json:"priority,omitempty"`

	SuggestedDepartmentID *primitive.ObjectID `bson:"suggested_department_id,omitempty" json:"suggested_department_id,omitempty"`
	DepartmentID          *primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`
	AssignedWorkerID      *primitive.ObjectID `bson:"assigned_worker_id,omitempty" json:"assigned_worker_id,omitempty"`

	AdminNotes      string `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	DepartmentNotes string `bson:"department_notes,omitempty" json:"department_notes,omitempty"`
	WorkerNotes     string `bson:"worker_notes,omitempty" json:"worker_notes,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	ApprovedAt  *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// PriorityRank maps a priority to its queue ordering: urgent first, then
// high, then medium, then everything else.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	default:
		return 4
	}
}
