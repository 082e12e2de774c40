// internal/app/features/auth/handler.go
package auth

import (
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for password authentication.
type Handler struct {
	DB     *mongo.Database
	SM     *auth.SessionManager
	Limits *ratelimit.LoginLimiter
	Log    *zap.Logger
}

// NewHandler constructs an auth handler bound to a DB, session manager,
// and logger. Login attempts are rate limited per IP and per email.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		SM:     sm,
		Limits: ratelimit.NewLoginLimiter(),
		Log:    logger,
	}
}
