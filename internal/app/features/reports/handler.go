// internal/app/features/reports/handler.go
package reports

import (
	"github.com/civicpulse/civicpulse/internal/app/system/classify"
	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for citizen report endpoints.
type Handler struct {
	DB         *mongo.Database
	Engine     *lifecycle.Engine
	Classifier classify.Classifier
	Log        *zap.Logger
}

// NewHandler constructs a reports handler bound to a DB, the lifecycle
// engine, and a logger. A nil classifier falls back to the manual-review
// stand-in.
func NewHandler(db *mongo.Database, engine *lifecycle.Engine, classifier classify.Classifier, logger *zap.Logger) *Handler {
	if classifier == nil {
		classifier = classify.Unavailable{}
	}
	return &Handler{
		DB:         db,
		Engine:     engine,
		Classifier: classifier,
		Log:        logger,
	}
}
