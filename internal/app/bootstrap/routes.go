// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/civicpulse/civicpulse/internal/app/features/admin"
	authfeature "github.com/civicpulse/civicpulse/internal/app/features/auth"
	authgooglefeature "github.com/civicpulse/civicpulse/internal/app/features/authgoogle"
	donationsfeature "github.com/civicpulse/civicpulse/internal/app/features/donations"
	geocodefeature "github.com/civicpulse/civicpulse/internal/app/features/geocode"
	healthfeature "github.com/civicpulse/civicpulse/internal/app/features/health"
	reportsfeature "github.com/civicpulse/civicpulse/internal/app/features/reports"
	upcyclefeature "github.com/civicpulse/civicpulse/internal/app/features/upcycle"
	uploadsfeature "github.com/civicpulse/civicpulse/internal/app/features/uploads"
	usersfeature "github.com/civicpulse/civicpulse/internal/app/features/users"
	workerfeature "github.com/civicpulse/civicpulse/internal/app/features/worker"
	catmapstore "github.com/civicpulse/civicpulse/internal/app/store/catmap"
	departmentstore "github.com/civicpulse/civicpulse/internal/app/store/departments"
	"github.com/civicpulse/civicpulse/internal/app/store/oauthstate"
	userstore "github.com/civicpulse/civicpulse/internal/app/store/users"
	"github.com/civicpulse/civicpulse/internal/app/system/auth"
	"github.com/civicpulse/civicpulse/internal/app/system/classify"
	"github.com/civicpulse/civicpulse/internal/app/system/deptrouter"
	"github.com/civicpulse/civicpulse/internal/app/system/geocode"
	"github.com/civicpulse/civicpulse/internal/app/system/lifecycle"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// CivicPulse wires the session manager, the report lifecycle engine with
// its department router, local media storage, and mounts feature routers
// for auth, reports, admin, worker, donations, upcycling, uploads, and
// geocoding.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Role changes, disabled accounts, and profile updates
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.New(deps.MongoDatabase))

	// The lifecycle engine owns every report status transition; the
	// department router picks the department for an approved report.
	router := deptrouter.New(
		catmapstore.New(deps.MongoDatabase),
		departmentstore.New(deps.MongoDatabase),
		logger,
	)
	engine := lifecycle.New(deps.MongoDatabase, deps.MongoClient, router, logger)

	// Local media storage for report photos/videos and donation images.
	blobStore, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("local storage init failed", zap.Error(err))
		return nil, err
	}

	// No inference backend ships with this build; the stand-in tells
	// clients to pick a category manually.
	var classifier classify.Classifier = classify.Unavailable{}
	if appCfg.ClassifierEnabled {
		logger.Warn("classifier_enabled is set but no inference backend is available")
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.BaseURL, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded media served straight from local storage
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	// Authentication: password register/login plus Google sign-in
	authHandler := authfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/auth", authfeature.Routes(authHandler, sessionMgr))

	googleHandler := authgooglefeature.NewHandler(
		deps.MongoDatabase,
		sessionMgr,
		oauthstate.New(deps.MongoDatabase),
		appCfg.GoogleClientID,
		appCfg.GoogleClientSecret,
		appCfg.BaseURL,
		logger,
	)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Leaderboard, badge ladder, and worker directory
	usersHandler := usersfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	// Citizen report submission and viewing
	reportsHandler := reportsfeature.NewHandler(deps.MongoDatabase, engine, classifier, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

	// Moderation queue, departments, category mappings, staff accounts
	adminHandler := adminfeature.NewHandler(deps.MongoDatabase, engine, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	// Worker task list and availability
	workerHandler := workerfeature.NewHandler(deps.MongoDatabase, engine, logger)
	r.Mount("/worker", workerfeature.Routes(workerHandler, sessionMgr))

	// Donations marketplace
	donationsHandler := donationsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/donations", donationsfeature.Routes(donationsHandler, sessionMgr))

	// Upcycling idea chatbot
	upcycleHandler := upcyclefeature.NewHandler(logger)
	r.Mount("/upcycle", upcyclefeature.Routes(upcycleHandler))

	// Media uploads
	uploadsHandler := uploadsfeature.NewHandler(blobStore, logger)
	r.Mount("/uploads", uploadsfeature.Routes(uploadsHandler, sessionMgr))

	// Reverse geocoding proxy
	geocodeHandler := geocodefeature.NewHandler(geocode.NewClient(appCfg.GeocodeBaseURL, logger), logger)
	r.Mount("/geocode", geocodefeature.Routes(geocodeHandler))

	return r, nil
}
