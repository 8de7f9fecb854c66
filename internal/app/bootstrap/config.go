// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for TradePost.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: TRADEPOST_MONGO_URI, TRADEPOST_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "tradepost", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// User sessions (Google OAuth sign-ins)
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "tradepost-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Admin authentication
	{Name: "admin_jwt_secret", Default: "dev-only-admin-secret-change-me", Desc: "Signing secret for admin JWTs"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Media hosting
	{Name: "cloudinary_cloud_name", Default: "", Desc: "Cloudinary account cloud name"},
	{Name: "cloudinary_api_key", Default: "", Desc: "Cloudinary API key"},
	{Name: "cloudinary_api_secret", Default: "", Desc: "Cloudinary API secret"},

	// Base URL for OAuth callbacks and redirects
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for OAuth callbacks"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TRADEPOST", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		AdminJWTSecret: appValues.String("admin_jwt_secret"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		CloudinaryCloudName: appValues.String("cloudinary_cloud_name"),
		CloudinaryAPIKey:    appValues.String("cloudinary_api_key"),
		CloudinaryAPISecret: appValues.String("cloudinary_api_secret"),

		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked early, before attempting to
// connect. Production requires real secrets; dev falls back to the
// insecure defaults with a warning.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" {
		if appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
			return fmt.Errorf("session_key must be set in production")
		}
		if appCfg.AdminJWTSecret == "dev-only-admin-secret-change-me" {
			return fmt.Errorf("admin_jwt_secret must be set in production")
		}
		if appCfg.GoogleClientID == "" || appCfg.GoogleClientSecret == "" {
			return fmt.Errorf("google_client_id and google_client_secret must be set in production")
		}
	}

	if appCfg.CloudinaryCloudName == "" {
		logger.Warn("cloudinary credentials not set; image uploads will be unavailable")
	}

	return nil
}
