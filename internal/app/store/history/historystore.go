// Package historystore persists the append-only ledger of accepted report
// transitions. Entries are inserted alongside the status write and are
// never updated or deleted.
package historystore

import (
	"context"
	"time"

	"github.com/civicpulse/civicpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("report_history")}
}

// EnsureIndexes creates the per-report timeline index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "report_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}

// Append records one accepted transition.
func (s *Store) Append(ctx context.Context, h models.ReportHistory) (models.ReportHistory, error) {
	h.ID = primitive.NewObjectID()
	h.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, h); err != nil {
		return models.ReportHistory{}, err
	}
	return h, nil
}

// ListByReport returns a report's transition entries, newest first.
func (s *Store) ListByReport(ctx context.Context, reportID primitive.ObjectID) ([]models.ReportHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"report_id": reportID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.ReportHistory
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of ledger entries matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
