// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level, and CORS. AppConfig is where everything specific
// to this application lives: connection strings, credential secrets,
// and OAuth settings.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// User session management (Google OAuth sign-ins)
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions
	SessionDomain string // Cookie domain (blank means current host)

	// Admin authentication (credentialed editorial staff)
	AdminJWTSecret string // Secret for signing admin JWTs

	// Google OAuth configuration
	GoogleClientID     string // Google OAuth2 client ID
	GoogleClientSecret string // Google OAuth2 client secret

	// Media hosting (Cloudinary)
	CloudinaryCloudName string // Cloudinary account cloud name
	CloudinaryAPIKey    string // Cloudinary API key
	CloudinaryAPISecret string // Cloudinary API secret

	// Base URL for OAuth callbacks and post-login redirects
	BaseURL string // e.g., "https://tradepost.example" or "http://localhost:3000"
}
