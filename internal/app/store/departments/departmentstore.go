// internal/app/store/departments/departmentstore.go
package departmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/civicpulse/civicpulse/internal/app/system/status"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound            = errors.New("department not found")
	ErrDuplicateDepartment = errors.New("a department with this name already exists")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("departments")}
}

// EnsureIndexes creates the unique case-insensitive name index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) Create(ctx context.Context, dept models.Department) (models.Department, error) {
	now := time.Now().UTC()
	dept.ID = primitive.NewObjectID()
	dept.NameCI = text.Fold(dept.Name)
	if dept.Status == "" {
		dept.Status = status.Active
	}
	dept.CreatedAt = now
	dept.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, dept)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Department{}, ErrDuplicateDepartment
		}
		return models.Department{}, err
	}
	return dept, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Department, error) {
	var dept models.Department
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&dept)
	if err == mongo.ErrNoDocuments {
		return models.Department{}, ErrNotFound
	}
	if err != nil {
		return models.Department{}, err
	}
	return dept, nil
}

// GetByNameCI loads a department by case-insensitive name.
func (s *Store) GetByNameCI(ctx context.Context, name string) (models.Department, error) {
	var dept models.Department
	err := s.c.FindOne(ctx, bson.M{"name_ci": text.Fold(name)}).Decode(&dept)
	if err == mongo.ErrNoDocuments {
		return models.Department{}, ErrNotFound
	}
	if err != nil {
		return models.Department{}, err
	}
	return dept, nil
}

// GetOther returns the catch-all "Other" department, creating it on first
// use so suggestion fallback always has a target.
func (s *Store) GetOther(ctx context.Context) (models.Department, error) {
	dept, err := s.GetByNameCI(ctx, models.OtherDepartmentName)
	if err == nil {
		return dept, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Department{}, err
	}

	created, err := s.Create(ctx, models.Department{
		Name:        models.OtherDepartmentName,
		Description: "Catch-all for issues that do not match a specific department",
	})
	if errors.Is(err, ErrDuplicateDepartment) {
		// Lost a race with a concurrent first use.
		return s.GetByNameCI(ctx, models.OtherDepartmentName)
	}
	return created, err
}

// List returns all departments sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var depts []models.Department
	if err := cur.All(ctx, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

// ListActive returns active departments sorted by name.
func (s *Store) ListActive(ctx context.Context) ([]models.Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"status": status.Active}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var depts []models.Department
	if err := cur.All(ctx, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

// Update modifies a department's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, dept models.Department) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if dept.Name != "" {
		set["name"] = dept.Name
		set["name_ci"] = text.Fold(dept.Name)
	}
	if dept.Description != "" {
		set["description"] = dept.Description
	}
	if dept.Icon != "" {
		set["icon"] = dept.Icon
	}
	if dept.Color != "" {
		set["color"] = dept.Color
	}
	if dept.Status != "" {
		set["status"] = dept.Status
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateDepartment
		}
		return err
	}
	return nil
}

// Delete removes a department by ID. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of departments matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
