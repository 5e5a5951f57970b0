package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/bazaar-team/bazaar-backend/internal/account/auth"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/middleware"
)

func setupCatalogRoutes(mux *chi.Mux, h Handlers, jwt *auth.JWTManager) {
	mux.Get("/city", h.Cities.HandleList)
	mux.Get("/category", h.Categories.HandleList)
	mux.Get("/category/tree", h.Categories.HandleTree)
	mux.Get("/search", h.Products.HandleSearch)

	// Listing and retrieve behave differently for owners, so the token is
	// decoded when present but anonymous callers pass through.
	mux.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(jwt))

		r.Get("/product", h.Products.HandleList)
		r.Get("/product/{id}", h.Products.HandleGet)
	})

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwt))

		r.Post("/category", h.Categories.HandleCreate)

		r.Post("/product", h.Products.HandleCreate)
		r.Put("/product/{id}", h.Products.HandleUpdate)
		r.Patch("/product/{id}", h.Products.HandlePartialUpdate)
		r.Delete("/product/{id}", h.Products.HandleDelete)

		r.Post("/product/{id}/image", h.Products.HandleUploadImages)
		r.Delete("/products/{product_id}/images/{image_id}", h.Products.HandleDeleteImage)
		r.Post("/product/{id}/favorite", h.Products.HandleFavorite)
	})
}
