package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// History action tags. One per accepted lifecycle transition.
const (
	ActionApproved       = "approved"
	ActionWorkerAssigned = "worker_assigned"
	ActionStarted        = "started"
	ActionCompleted      = "completed"
)

// ReportHistory is an append-only audit record of a single accepted status
// transition. Rows are never updated or deleted.
type ReportHistory struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ReportID  primitive.ObjectID  `bson:"report_id" json:"report_id"`
	ChangedBy primitive.ObjectID  `bson:"changed_by" json:"changed_by"`
	OldStatus string              `bson:"old_status" json:"old_status"`
	NewStatus string              `bson:"new_status" json:"new_status"`
	Action    string              `bson:"action" json:"action"`
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
	NewDeptID *primitive.ObjectID `bson:"new_department_id,omitempty" json:"new_department_id,omitempty"`
	NewWorker *primitive.ObjectID `bson:"new_worker_id,omitempty" json:"new_worker_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
