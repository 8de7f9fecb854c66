// internal/app/features/blogs/routes.go
package blogs

import (
	"github.com/go-chi/chi/v5"

	"github.com/tradepost/tradepost/internal/app/system/adminauth"
)

// Routes returns the router for blog endpoints. Reads are public;
// writes require an admin token.
func Routes(h *Handler, authMgr *adminauth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/category/{slug}", h.ServeByCategory)
	r.Get("/{id}", h.ServeGet)

	r.Group(func(r chi.Router) {
		r.Use(authMgr.RequireAdmin)
		r.Post("/", h.HandleCreate)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})

	return r
}
