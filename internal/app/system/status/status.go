// Package status defines account/department status values shared by the
// stores and validators.
package status

const (
	Active   = "active"
	Inactive = "inactive"
)

// IsValid reports whether s is a recognized status value.
func IsValid(s string) bool {
	return s == Active || s == Inactive
}
