package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/civicpulse/civicpulse/internal/app/system/normalize"
	"github.com/civicpulse/civicpulse/internal/app/system/points"
	"github.com/civicpulse/civicpulse/internal/app/system/status"
	"github.com/civicpulse/civicpulse/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	errBadRole    = errors.New(`role must be "citizen"|"worker"|"department"|"admin"`)
	errBadStatus  = errors.New(`status must be "active"|"inactive"`)
	errDeptNeeded = errors.New("worker and department users must have department_id")
	errNotAWorker = errors.New("user is not a worker")
)

// Store manages the users collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index plus the worker and
// leaderboard query paths.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "status", Value: 1},
				{Key: "department_id", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "points", Value: -1}},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// GetWorkerByID loads a user by ObjectID and verifies role=worker.
func (s *Store) GetWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id, "role": models.RoleWorker}).Decode(&u)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
// New citizens start at zero points with the base badge; new workers start
// available.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Phone = normalize.Phone(u.Phone)
	if u.Status == "" {
		u.Status = status.Active
	}
	if u.Role == "" {
		u.Role = models.RoleCitizen
	}

	switch u.Role {
	case models.RoleCitizen, models.RoleWorker, models.RoleDepartment, models.RoleAdmin:
	default:
		return models.User{}, errBadRole
	}

	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	// Workers and department heads are scoped to a department.
	if (u.Role == models.RoleWorker || u.Role == models.RoleDepartment) && u.DepartmentID == nil {
		return models.User{}, errDeptNeeded
	}

	u.Badge = points.Badge(u.Points)
	if u.Role == models.RoleWorker && u.WorkerStatus == "" {
		u.WorkerStatus = models.WorkerAvailable
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// List returns all users, newest first.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListWorkers returns active workers, optionally scoped to a department,
// with available workers first and then by name.
func (s *Store) ListWorkers(ctx context.Context, departmentID *primitive.ObjectID) ([]models.User, error) {
	filter := bson.M{"role": models.RoleWorker, "status": status.Active}
	if departmentID != nil {
		filter["department_id"] = *departmentID
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"available_first": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$worker_status", models.WorkerAvailable}}, 0, 1,
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "available_first", Value: 1},
			{Key: "full_name_ci", Value: 1},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var workers []models.User
	if err := cur.All(ctx, &workers); err != nil {
		return nil, err
	}
	return workers, nil
}

// Leaderboard returns active citizens ranked by points descending, ties
// broken by earliest sign-up.
func (s *Store) Leaderboard(ctx context.Context, limit int64) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{
			{Key: "points", Value: -1},
			{Key: "created_at", Value: 1},
		}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"role": models.RoleCitizen, "status": status.Active}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetWorkerStatus updates a worker's availability. Only documents with
// role=worker match, so the status of other users can't be flipped by a
// stray worker id.
func (s *Store) SetWorkerStatus(ctx context.Context, id primitive.ObjectID, workerStatus string) error {
	switch workerStatus {
	case models.WorkerAvailable, models.WorkerBusy, models.WorkerOffline:
	default:
		return errors.New(`worker status must be "available"|"busy"|"offline"`)
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "role": models.RoleWorker},
		bson.M{"$set": bson.M{"worker_status": workerStatus, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errNotAWorker
	}
	return nil
}

// AwardPoints adds delta to a user's points and recomputes the badge in the
// same atomic update (pipeline update, so badge can never drift from the
// new total). Returns the updated user.
func (s *Store) AwardPoints(ctx context.Context, id primitive.ObjectID, delta int) (*models.User, error) {
	newTotal := bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$points", 0}}, delta}}

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"points":     newTotal,
			"badge":      badgeExpr(newTotal),
			"updated_at": time.Now().UTC(),
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// badgeExpr builds the aggregation expression mirroring points.Badge, so
// the badge is derived inside the same write that changes the total.
func badgeExpr(total bson.M) bson.M {
	return bson.M{"$switch": bson.M{
		"branches": bson.A{
			bson.M{"case": bson.M{"$gte": bson.A{total, 500}}, "then": points.BadgePlatinum},
			bson.M{"case": bson.M{"$gte": bson.A{total, 300}}, "then": points.BadgeGold},
			bson.M{"case": bson.M{"$gte": bson.A{total, 200}}, "then": points.BadgeSilver},
			bson.M{"case": bson.M{"$gte": bson.A{total, 100}}, "then": points.BadgeBronze},
		},
		"default": points.BadgeCitizen,
	}}
}

// IncReportsSubmitted bumps the citizen's submission counter.
func (s *Store) IncReportsSubmitted(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"reports_submitted": 1}})
	return err
}

func mapErr(err error) error {
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}
