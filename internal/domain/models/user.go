package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. Department heads log into the department console;
// workers receive task assignments; citizens submit reports.
const (
	RoleCitizen    = "citizen"
	RoleWorker     = "worker"
	RoleDepartment = "department"
	RoleAdmin      = "admin"
)

// Worker availability values. "busy" is advisory: a busy worker can still
// receive additional assignments.
const (
	WorkerAvailable = "available"
	WorkerBusy      = "busy"
	WorkerOffline   = "offline"
)

// User represents citizens, workers, department heads, and admins.
//
// Points and Badge are mutated only by the lifecycle engine and the admin
// point-adjustment path; Badge is always derived from Points, never set
// directly.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role       string             `bson:"role" json:"role"`
	Status     string             `bson:"status" json:"status"`

	// PasswordHash is a bcrypt hash; empty for Google-only accounts.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string `bson:"auth_method,omitempty" json:"auth_method,omitempty"`
	GoogleID     string `bson:"google_id,omitempty" json:"-"`

	Points           int    `bson:"points" json:"points"`
	Badge            string `bson:"badge" json:"badge"`
	ReportsSubmitted int    `bson:"reports_submitted" json:"reports_submitted"`

	// Worker-only fields.
	WorkerStatus string              `bson:"worker_status,omitempty" json:"worker_status,omitempty"`
	DepartmentID *primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsWorker reports whether the user can be assigned report tasks.
func (u *User) IsWorker() bool { return u.Role == RoleWorker }
