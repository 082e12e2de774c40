// internal/app/store/reports/reportstore.go
package reportstore

import (
	"context"
	"errors"
	"time"

	"github.com/civicpulse/civicpulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no report matches the id.
	ErrNotFound = errors.New("report not found")
	// ErrStatusConflict is returned when a transition's status precondition
	// no longer holds, typically because a concurrent command won the race.
	ErrStatusConflict = errors.New("report status changed concurrently")
	// ErrWorkerConflict is returned when a transition's worker guard does
	// not match, typically because the report was reassigned concurrently.
	ErrWorkerConflict = errors.New("report is assigned to a different worker")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

// EnsureIndexes creates the query paths for citizen feeds, admin queues,
// and worker task lists.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "department_id", Value: 1},
				{Key: "status", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "assigned_worker_id", Value: 1},
				{Key: "status", Value: 1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new report in pending status with the base point value.
func (s *Store) Create(ctx context.Context, r models.Report) (models.Report, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.Status = models.StatusPending
	if r.Points == 0 {
		r.Points = models.DefaultReportPoints
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var r models.Report
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListByUser returns a citizen's reports, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Report, error) {
	return s.find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// ListByStatus returns reports in a given status, newest first.
func (s *Store) ListByStatus(ctx context.Context, status string) ([]models.Report, error) {
	return s.find(ctx, bson.M{"status": status},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// ListByWorker returns a worker's assigned reports in the given statuses,
// newest first. Empty statuses means all.
func (s *Store) ListByWorker(ctx context.Context, workerID primitive.ObjectID, statuses ...string) ([]models.Report, error) {
	filter := bson.M{"assigned_worker_id": workerID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return s.find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// Find returns reports matching the given filter with optional find options.
// The caller is responsible for building the filter and options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Report, error) {
	return s.find(ctx, filter, opts...)
}

// Queue returns reports matching filter ordered for triage: urgent first,
// then high, then medium, then the rest; newest first within a tier.
func (s *Store) Queue(ctx context.Context, filter bson.M) ([]models.Report, error) {
	if filter == nil {
		filter = bson.M{}
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"priority_rank": bson.M{"$switch": bson.M{
				"branches": bson.A{
					bson.M{"case": bson.M{"$eq": bson.A{"$priority", models.PriorityUrgent}}, "then": 1},
					bson.M{"case": bson.M{"$eq": bson.A{"$priority", models.PriorityHigh}}, "then": 2},
					bson.M{"case": bson.M{"$eq": bson.A{"$priority", models.PriorityMedium}}, "then": 3},
				},
				"default": 4,
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "priority_rank", Value: 1},
			{Key: "created_at", Value: -1},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reports []models.Report
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Transition applies set to the report only when its current status is one
// of allowedFrom and every guard field still matches, and returns the
// document as it stood before the write and as the write left it. The
// preconditions and the write are a single compare-and-set, so two commands
// racing on the same report cannot both win, and the returned pre-image is
// exactly the document the write replaced.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, allowedFrom []string, guard, set bson.M) (before, after *models.Report, err error) {
	if set == nil {
		set = bson.M{}
	}
	set["updated_at"] = time.Now().UTC()

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": allowedFrom},
	}
	for k, v := range guard {
		filter[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var pre models.Report
	err = s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&pre)
	if err == mongo.ErrNoDocuments {
		return nil, nil, s.classifyMiss(ctx, id, allowedFrom)
	}
	if err != nil {
		return nil, nil, err
	}

	post, err := overlay(pre, set)
	if err != nil {
		return nil, nil, err
	}
	return &pre, &post, nil
}

// classifyMiss explains a Transition filter miss: the report is gone, its
// status moved on, or only the guard failed.
func (s *Store) classifyMiss(ctx context.Context, id primitive.ObjectID, allowedFrom []string) error {
	var current models.Report
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	for _, status := range allowedFrom {
		if current.Status == status {
			return ErrWorkerConflict
		}
	}
	return ErrStatusConflict
}

// overlay rebuilds the post-write document from the pre-image and the
// fields the write set, so callers see the update without a second read.
func overlay(before models.Report, set bson.M) (models.Report, error) {
	raw, err := bson.Marshal(before)
	if err != nil {
		return models.Report{}, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return models.Report{}, err
	}
	for k, v := range set {
		doc[k] = v
	}
	merged, err := bson.Marshal(doc)
	if err != nil {
		return models.Report{}, err
	}
	var after models.Report
	if err := bson.Unmarshal(merged, &after); err != nil {
		return models.Report{}, err
	}
	return after, nil
}

// SetNotes updates a single notes field without touching status.
func (s *Store) SetNotes(ctx context.Context, id primitive.ObjectID, field, value string) error {
	switch field {
	case "admin_notes", "department_notes", "worker_notes":
	default:
		return errors.New("unknown notes field")
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		field:        value,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Patch holds optional report field updates applied outside the status
// transitions. Nil fields are left untouched.
type Patch struct {
	Priority        *string
	BonusPoints     *int
	AdminNotes      *string
	DepartmentNotes *string
}

// Update applies a Patch and returns the updated report.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (*models.Report, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Priority != nil {
		set["priority"] = *p.Priority
	}
	if p.BonusPoints != nil {
		set["bonus_points"] = *p.BonusPoints
	}
	if p.AdminNotes != nil {
		set["admin_notes"] = *p.AdminNotes
	}
	if p.DepartmentNotes != nil {
		set["department_notes"] = *p.DepartmentNotes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var r models.Report
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes a report permanently.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns report counts grouped by status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
	}
	return counts, cur.Err()
}

// Count returns the number of reports matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Report, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reports []models.Report
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
