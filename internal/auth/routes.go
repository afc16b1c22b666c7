package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ApptChat/AC-Backend/internal/middleware"
)

func (h *Handler) SetupRoutes(limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))
		r.Post("/register", h.RegisterHandler)
		r.Post("/login", h.LoginHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(Verifier{Secret: h.Secret}))
		r.Get("/me", h.MeHandler)
	})

	return r
}
