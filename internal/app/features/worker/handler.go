// internal/app/features/worker/handler.go
package worker

import (
	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the field-worker API: the personal task list, start and
// complete actions, and availability updates.
type Handler struct {
	DB     *mongo.Database
	Engine *lifecycle.Engine
	Log    *zap.Logger
}

// NewHandler constructs a worker handler bound to a DB, the lifecycle
// engine, and a logger.
func NewHandler(db *mongo.Database, engine *lifecycle.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Engine: engine,
		Log:    logger,
	}
}
