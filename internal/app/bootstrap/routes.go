// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminsfeature "github.com/tradepost/tradepost/internal/app/features/admins"
	authgooglefeature "github.com/tradepost/tradepost/internal/app/features/authgoogle"
	blogsfeature "github.com/tradepost/tradepost/internal/app/features/blogs"
	businessfeature "github.com/tradepost/tradepost/internal/app/features/business"
	healthfeature "github.com/tradepost/tradepost/internal/app/features/health"
	listingsfeature "github.com/tradepost/tradepost/internal/app/features/listings"
	logoutfeature "github.com/tradepost/tradepost/internal/app/features/logout"
	profilefeature "github.com/tradepost/tradepost/internal/app/features/profile"
	"github.com/tradepost/tradepost/internal/app/media"
	adminstore "github.com/tradepost/tradepost/internal/app/store/admins"
	blogstore "github.com/tradepost/tradepost/internal/app/store/blogs"
	businessstore "github.com/tradepost/tradepost/internal/app/store/businesses"
	"github.com/tradepost/tradepost/internal/app/store/oauthstate"
	productstore "github.com/tradepost/tradepost/internal/app/store/products"
	userstore "github.com/tradepost/tradepost/internal/app/store/users"
	"github.com/tradepost/tradepost/internal/app/system/adminauth"
	"github.com/tradepost/tradepost/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. TradePost mounts a JSON API: public
// reads for blogs and listings, Google-session gated user surfaces, and a
// JWT-cookie gated admin surface.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, 24*time.Hour, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Profile and business-role changes take effect
	// immediately.
	users := userstore.New(db)
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	adminAuth, err := adminauth.New(appCfg.AdminJWTSecret, secure)
	if err != nil {
		logger.Error("admin auth init failed", zap.Error(err))
		return nil, err
	}

	// Media hosting is optional in dev. Uploads fail politely when it is
	// not configured.
	var uploader media.Uploader
	if appCfg.CloudinaryCloudName != "" {
		cld, err := media.NewCloudinary(appCfg.CloudinaryCloudName, appCfg.CloudinaryAPIKey, appCfg.CloudinaryAPISecret, logger)
		if err != nil {
			logger.Error("media host init failed", zap.Error(err))
			return nil, err
		}
		uploader = cld
	} else {
		logger.Warn("media hosting not configured, uploads disabled")
	}

	r := chi.NewRouter()

	// Global auth middleware: loads the session user into context so
	// handlers can call auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Google OAuth sign-in.
	authHandler := authgooglefeature.NewHandler(
		users, sessionMgr, oauthstate.New(db),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger,
	)
	r.Mount("/auth/google", authgooglefeature.Routes(authHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Editorial surface.
	blogsHandler := blogsfeature.NewHandler(blogstore.New(db), uploader, logger)
	r.Mount("/blogs", blogsfeature.Routes(blogsHandler, adminAuth))

	adminsHandler := adminsfeature.NewHandler(adminstore.New(db), adminAuth, logger)
	r.Mount("/admin", adminsfeature.Routes(adminsHandler))

	// Marketplace surface.
	listingsHandler := listingsfeature.NewHandler(productstore.New(db), users, uploader, logger)
	r.Mount("/listings", listingsfeature.Routes(listingsHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(users, logger)
	r.Mount("/user/profile", profilefeature.Routes(profileHandler, sessionMgr))

	businessHandler := businessfeature.NewHandler(businessstore.New(db), users, uploader, logger)
	r.Mount("/business", businessfeature.Routes(businessHandler, sessionMgr))

	return r, nil
}
