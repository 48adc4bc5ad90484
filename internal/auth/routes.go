package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes attaches the auth endpoints to the parent router. Signup and
// login sit behind the rate limiter; password change requires a session.
func (h *Handler) RegisterRoutes(r chi.Router, guard, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/signup", h.SignupHandler)
	r.With(limit).Post("/login", h.LoginHandler)
	r.Get("/logout", h.LogoutHandler)
	r.With(guard).Post("/password", h.UpdatePasswordHandler)
}
