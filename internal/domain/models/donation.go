package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation statuses.
const (
	DonationAvailable = "available"
	DonationClaimed   = "claimed"
)

// Donation is an item a citizen offers for reuse. Claiming stamps
// ClaimedBy/ClaimedAt and flips the status.
type Donation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Condition   string             `bson:"condition" json:"condition"`

	LocationText string `bson:"location_text" json:"location_text"`
	City         string `bson:"city,omitempty" json:"city,omitempty"`
	State        string `bson:"state,omitempty" json:"state,omitempty"`
	Country      string `bson:"country,omitempty" json:"country,omitempty"`

	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	Status    string              `bson:"status" json:"status"`
	ClaimedBy *primitive.ObjectID `bson:"claimed_by,omitempty" json:"claimed_by,omitempty"`
	ClaimedAt *time.Time          `bson:"claimed_at,omitempty" json:"claimed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
