package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtherDepartmentName is the catch-all department the router falls back to
// when no mapping keyword matches a report category.
const OtherDepartmentName = "Other"

// Department owns workers (User.DepartmentID) and approved reports
// (Report.DepartmentID).
type Department struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"` // always stored
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Icon        string             `bson:"icon,omitempty" json:"icon,omitempty"`
	Color       string             `bson:"color,omitempty" json:"color,omitempty"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// CategoryDepartmentMap maps a category keyword to a department. Rows are
// a suggestion heuristic only, never authoritative.
type CategoryDepartmentMap struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category     string             `bson:"category" json:"category"`
	DepartmentID primitive.ObjectID `bson:"department_id" json:"department_id"`
}
