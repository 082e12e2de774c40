// Package deptrouter suggests a department for a newly submitted report
// based on its category. Suggestions are advisory: the binding department
// is always chosen by the admin at approval time.
package deptrouter

import (
	"context"
	"strings"

	catmapstore "github.com/civicpulse/civicpulse/internal/app/store/catmap"
	departmentstore "github.com/civicpulse/civicpulse/internal/app/store/departments"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Suggestion is the router's answer for a report category.
type Suggestion struct {
	DepartmentID   primitive.ObjectID
	DepartmentName string
	Matched        string // the mapping keyword that matched, empty on fallback
}

// Router matches report categories against the keyword mapping.
type Router struct {
	catmaps *catmapstore.Store
	depts   *departmentstore.Store
	log     *zap.Logger
}

func New(catmaps *catmapstore.Store, depts *departmentstore.Store, logger *zap.Logger) *Router {
	return &Router{catmaps: catmaps, depts: depts, log: logger}
}

// Suggest returns the department for a report category. Exact keyword
// matches win; otherwise the first mapping whose keyword appears inside
// the category (or vice versa) is used; otherwise the catch-all "Other"
// department. Matching is case-insensitive.
func (r *Router) Suggest(ctx context.Context, category string) (Suggestion, error) {
	folded := text.Fold(strings.TrimSpace(category))

	if folded != "" {
		mappings, err := r.catmaps.List(ctx)
		if err != nil {
			return Suggestion{}, err
		}

		if m, ok := match(folded, mappings); ok {
			dept, err := r.depts.GetByID(ctx, m.DepartmentID)
			if err == nil {
				return Suggestion{
					DepartmentID:   dept.ID,
					DepartmentName: dept.Name,
					Matched:        m.Category,
				}, nil
			}
			// Mapping points at a deleted department; fall through to Other.
			r.log.Warn("category mapping references missing department",
				zap.String("category", m.Category),
				zap.String("department_id", m.DepartmentID.Hex()))
		}
	}

	other, err := r.depts.GetOther(ctx)
	if err != nil {
		return Suggestion{}, err
	}
	return Suggestion{DepartmentID: other.ID, DepartmentName: other.Name}, nil
}

// match scans mappings for folded. Exact match first, then substring in
// either direction, in keyword order for determinism.
func match(folded string, mappings []models.CategoryDepartmentMap) (models.CategoryDepartmentMap, bool) {
	for _, m := range mappings {
		if m.Category == folded {
			return m, true
		}
	}
	for _, m := range mappings {
		if m.Category == "" {
			continue
		}
		if strings.Contains(folded, m.Category) || strings.Contains(m.Category, folded) {
			return m, true
		}
	}
	return models.CategoryDepartmentMap{}, false
}
