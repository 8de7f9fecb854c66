// internal/app/features/admins/routes.go
package admins

import "github.com/go-chi/chi/v5"

// Routes returns the router for admin account endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdmin)
		r.Get("/me", h.ServeMe)
	})

	return r
}
