// Package catmapstore persists the category keyword to department mapping
// consulted when suggesting a department for a new report.
package catmapstore

import (
	"context"
	"errors"

	"github.com/civicpulse/civicpulse/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("category mapping not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("category_department_map")}
}

// EnsureIndexes creates the unique category keyword index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Set upserts the mapping for a category keyword. Keywords are stored
// folded so lookups are case-insensitive.
func (s *Store) Set(ctx context.Context, category string, departmentID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"category": text.Fold(category)},
		bson.M{"$set": bson.M{"department_id": departmentID}},
		options.Update().SetUpsert(true))
	return err
}

// Get returns the mapping for an exact (folded) category keyword.
func (s *Store) Get(ctx context.Context, category string) (models.CategoryDepartmentMap, error) {
	var m models.CategoryDepartmentMap
	err := s.c.FindOne(ctx, bson.M{"category": text.Fold(category)}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.CategoryDepartmentMap{}, ErrNotFound
	}
	if err != nil {
		return models.CategoryDepartmentMap{}, err
	}
	return m, nil
}

// List returns all mappings sorted by keyword. The router loads the full
// set for substring matching; the table stays small (tens of rows).
func (s *Store) List(ctx context.Context) ([]models.CategoryDepartmentMap, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var maps []models.CategoryDepartmentMap
	if err := cur.All(ctx, &maps); err != nil {
		return nil, err
	}
	return maps, nil
}

// Delete removes the mapping for a category keyword.
func (s *Store) Delete(ctx context.Context, category string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"category": text.Fold(category)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
