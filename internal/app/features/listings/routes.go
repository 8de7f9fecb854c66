// internal/app/features/listings/routes.go
package listings

import (
	"github.com/go-chi/chi/v5"

	"github.com/tradepost/tradepost/internal/app/system/auth"
)

// Routes returns the router for listing endpoints. The feed and single
// reads are public; everything else needs a signed-in user.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeFeed)

	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Post("/", h.HandleCreate)
		r.Get("/user", h.ServeMine)
		r.Post("/upload-image", h.HandleUploadImage)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})

	r.Get("/{id}", h.ServeGet)

	return r
}
