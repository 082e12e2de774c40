// internal/app/features/admin/handler.go
package admin

import (
	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for the admin console API:
// triage queues, approval decisions, departments, category mappings, and
// staff accounts.
type Handler struct {
	DB     *mongo.Database
	Engine *lifecycle.Engine
	Log    *zap.Logger
}

// NewHandler constructs an admin handler bound to a DB, the lifecycle
// engine, and a logger.
func NewHandler(db *mongo.Database, engine *lifecycle.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Engine: engine,
		Log:    logger,
	}
}
