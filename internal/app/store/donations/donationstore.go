// internal/app/store/donations/donationstore.go
package donationstore

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
	ErrNotFound       = errors.New("donation not found")
	ErrAlreadyClaimed = errors.New("donation has already been claimed")
	ErrOwnDonation    = errors.New("cannot claim your own donation")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

// EnsureIndexes creates the browse and my-donations query paths.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create lists a new donation as available.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.Status = models.DonationAvailable
	d.ClaimedBy = nil
	d.ClaimedAt = nil
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var d models.Donation
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListAvailable returns unclaimed donations, newest first, optionally
// filtered by category.
func (s *Store) ListAvailable(ctx context.Context, category string) ([]models.Donation, error) {
	filter := bson.M{"status": models.DonationAvailable}
	if category != "" {
		filter["category"] = category
	}
	return s.find(ctx, filter)
}

// ListByUser returns all donations a user has listed, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Donation, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

// ListClaimedBy returns donations the user has claimed, newest first.
func (s *Store) ListClaimedBy(ctx context.Context, userID primitive.ObjectID) ([]models.Donation, error) {
	return s.find(ctx, bson.M{"claimed_by": userID})
}

// Claim marks the donation as claimed by claimerID. The availability check
// and the claim are one compare-and-set so two claimants cannot both win.
// Owners cannot claim their own listings.
func (s *Store) Claim(ctx context.Context, id, claimerID primitive.ObjectID) (*models.Donation, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":     id,
		"status":  models.DonationAvailable,
		"user_id": bson.M{"$ne": claimerID},
	}
	update := bson.M{"$set": bson.M{
		"status":     models.DonationClaimed,
		"claimed_by": claimerID,
		"claimed_at": now,
		"updated_at": now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if err == mongo.ErrNoDocuments {
		existing, gerr := s.GetByID(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if existing.UserID == claimerID {
			return nil, ErrOwnDonation
		}
		return nil, ErrAlreadyClaimed
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes a donation, but only the owner's own unclaimed listing.
func (s *Store) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"_id":     id,
		"user_id": ownerID,
		"status":  models.DonationAvailable,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var donations []models.Donation
	if err := cur.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}
