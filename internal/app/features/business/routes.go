// internal/app/features/business/routes.go
package business

import (
	"github.com/go-chi/chi/v5"

	"github.com/tradepost/tradepost/internal/app/system/auth"
)

// Routes returns the router for business endpoints. All of them need a
// signed-in user.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)

	r.Get("/profile", h.ServeProfile)
	r.Post("/register", h.HandleRegister)
	r.Post("/upload-logo", h.HandleUploadLogo)

	return r
}
