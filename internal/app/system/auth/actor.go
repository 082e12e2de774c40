package auth

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActorID returns the signed-in user's ObjectID. ok is false when there is
// no session user or the session id is malformed.
func ActorID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
