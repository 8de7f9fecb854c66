// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"

	"github.com/tradepost/tradepost/internal/app/system/auth"
)

// Routes returns the router for the current user's profile.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)

	r.Get("/", h.ServeGet)
	r.Put("/", h.HandleUpdate)

	return r
}
