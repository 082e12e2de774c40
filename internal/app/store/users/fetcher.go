package userstore

import (
	"context"
	"errors"

	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/status"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FetchSessionUser implements auth.UserFetcher. Missing or inactive users
// return (nil, nil) so the session middleware drops the cookie.
func (s *Store) FetchSessionUser(ctx context.Context, id string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc struct {
		ID           primitive.ObjectID  `bson:"_id"`
		FullName     string              `bson:"full_name"`
		Email        string              `bson:"email"`
		Role         string              `bson:"role"`
		DepartmentID *primitive.ObjectID `bson:"department_id"`
	}

	opts := options.FindOne().SetProjection(bson.M{
		"full_name":     1,
		"email":         1,
		"role":          1,
		"department_id": 1,
	})
	err = s.c.FindOne(ctx, bson.M{"_id": oid, "status": status.Active}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	su := &auth.SessionUser{
		ID:    doc.ID.Hex(),
		Name:  doc.FullName,
		Email: doc.Email,
		Role:  doc.Role,
	}
	if doc.DepartmentID != nil {
		su.DepartmentID = doc.DepartmentID.Hex()
	}
	return su, nil
}
