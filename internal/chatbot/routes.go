package chatbot

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ApptChat/AC-Backend/internal/auth"
	"github.com/ApptChat/AC-Backend/internal/middleware"
)

func (h *Handler) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.AuthMiddleware(auth.Verifier{Secret: h.Secret}))
	r.Get("/token", h.TokenHandler)
	r.Post("/message", h.MessageHandler)

	return r
}
