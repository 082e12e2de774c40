// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to CivicPulse lives: the Mongo
// connection, session cookies, upload storage, Google sign-in credentials,
// and the reverse-geocoding endpoint.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max driver connection pool size
	MongoMinPoolSize uint64 // Min driver connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: civicpulse-session)
	SessionDomain string // Cookie domain (blank means current host)

	// File storage configuration for report and donation media
	StorageLocalPath string // Local storage path (e.g., "./uploads/media")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/media")

	// Base URL for OAuth callbacks and absolute links
	BaseURL string // e.g., "https://civicpulse.example.org" or "http://localhost:3000"

	// Google OAuth sign-in for citizens (blank disables the flow)
	GoogleClientID     string
	GoogleClientSecret string

	// Reverse geocoding (Nominatim-style endpoint)
	GeocodeBaseURL string

	// Image classification toggle. The shipped classifier reports
	// unavailable, so this stays false until a backend exists.
	ClassifierEnabled bool
}
