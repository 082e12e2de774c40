// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	catmapstore "github.com/civicpulse/civicpulse/internal/app/store/catmap"
	departmentstore "github.com/civicpulse/civicpulse/internal/app/store/departments"
	donationstore "github.com/civicpulse/civicpulse/internal/app/store/donations"
	historystore "github.com/civicpulse/civicpulse/internal/app/store/history"
	"github.com/civicpulse/civicpulse/internal/app/store/oauthstate"
	reportstore "github.com/civicpulse/civicpulse/internal/app/store/reports"
	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	"github.com/civicpulse/civicpulse/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection used by every store.
// The pool sizes come from app config so deployments can tune them
// without a rebuild.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store relies on: unique emails,
// report/status lookups, the history ledger ordering, donation queries,
// category routing, and the TTL on OAuth state nonces.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	type indexed interface {
		EnsureIndexes(ctx context.Context) error
	}

	stores := map[string]indexed{
		"users":        userstore.New(db),
		"departments":  departmentstore.New(db),
		"catmap":       catmapstore.New(db),
		"reports":      reportstore.New(db),
		"history":      historystore.New(db),
		"donations":    donationstore.New(db),
		"oauth_states": oauthstate.New(db),
	}

	for name, s := range stores {
		if err := s.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	logger.Info("database indexes ensured", zap.Int("stores", len(stores)))
	return nil
}
