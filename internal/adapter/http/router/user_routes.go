package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/bazaar-team/bazaar-backend/internal/account/auth"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/handler"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/middleware"
)

func setupUserRoutes(mux *chi.Mux, h *handler.UserHandler, jwt *auth.JWTManager) {
	mux.Post("/api/auth/register", h.HandleRegister)
	mux.Post("/api/token", h.HandleToken)
	mux.Post("/api/token/refresh", h.HandleTokenRefresh)

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwt))

		r.Get("/api/user", h.HandleMe)
		r.Put("/api/user/{id}", h.HandleUpdate)
	})
}
