package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateDepartment creates an active department with the given name.
func (f *Fixtures) CreateDepartment(ctx context.Context, name string) models.Department {
	f.t.Helper()

	now := time.Now().UTC()
	dept := models.Department{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("departments").InsertOne(ctx, dept)
	if err != nil {
		f.t.Fatalf("failed to create test department: %v", err)
	}

	return dept
}

// CreateCategoryMapping maps a category keyword to a department.
func (f *Fixtures) CreateCategoryMapping(ctx context.Context, category string, deptID primitive.ObjectID) models.CategoryDepartmentMap {
	f.t.Helper()

	m := models.CategoryDepartmentMap{
		ID:           primitive.NewObjectID(),
		Category:     text.Fold(category),
		DepartmentID: deptID,
	}

	_, err := f.db.Collection("category_department_map").InsertOne(ctx, m)
	if err != nil {
		f.t.Fatalf("failed to create test category mapping: %v", err)
	}

	return m
}

// CreateUser creates an active user with the given role. Workers and
// department heads need deptID.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string, deptID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		AuthMethod:   "password",
		Role:         role,
		Status:       "active",
		Badge:        "citizen",
		DepartmentID: deptID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == models.RoleWorker {
		user.WorkerStatus = models.WorkerAvailable
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateCitizen creates an active citizen user.
func (f *Fixtures) CreateCitizen(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleCitizen, nil)
}

// CreateAdmin creates an active admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin, nil)
}

// CreateWorker creates an available worker in the given department.
func (f *Fixtures) CreateWorker(ctx context.Context, fullName, email string, deptID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleWorker, &deptID)
}

// CreateDepartmentHead creates a department-head user for the given department.
func (f *Fixtures) CreateDepartmentHead(ctx context.Context, fullName, email string, deptID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleDepartment, &deptID)
}

// CreateInactiveUser creates a citizen with inactive status.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		AuthMethod: "password",
		Role:       models.RoleCitizen,
		Status:     "inactive",
		Badge:      "citizen",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create inactive test user: %v", err)
	}

	return user
}

// CreateReport creates a pending report submitted by the given citizen.
func (f *Fixtures) CreateReport(ctx context.Context, userID primitive.ObjectID, category, description string) models.Report {
	f.t.Helper()

	now := time.Now().UTC()
	report := models.Report{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Category:     category,
		Description:  description,
		LocationText: "123 Test St",
		Status:       models.StatusPending,
		Points:       models.DefaultReportPoints,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("reports").InsertOne(ctx, report)
	if err != nil {
		f.t.Fatalf("failed to create test report: %v", err)
	}

	return report
}

// CreateReportWithStatus creates a report in the given lifecycle state.
func (f *Fixtures) CreateReportWithStatus(ctx context.Context, userID primitive.ObjectID, category, status string) models.Report {
	f.t.Helper()

	report := f.CreateReport(ctx, userID, category, "Test description")
	if status == models.StatusPending {
		return report
	}

	_, err := f.db.Collection("reports").UpdateByID(ctx, report.ID,
		map[string]any{"$set": map[string]any{"status": status}})
	if err != nil {
		f.t.Fatalf("failed to set test report status: %v", err)
	}
	report.Status = status
	return report
}

// CreateDonation creates an available donation listed by the given user.
func (f *Fixtures) CreateDonation(ctx context.Context, userID primitive.ObjectID, title string) models.Donation {
	f.t.Helper()

	now := time.Now().UTC()
	donation := models.Donation{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Title:        title,
		Description:  "Test donation item",
		Category:     "furniture",
		Condition:    "good",
		LocationText: "123 Test St",
		Status:       models.DonationAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("donations").InsertOne(ctx, donation)
	if err != nil {
		f.t.Fatalf("failed to create test donation: %v", err)
	}

	return donation
}
