package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/account/auth"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/handler"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/middleware"
)

// Handlers bundles everything the mux dispatches to.
type Handlers struct {
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
	Cities     *handler.CityHandler
	Users      *handler.UserHandler
}

// New builds the full route table.
func New(h Handlers, jwt *auth.JWTManager, logger *zap.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(middleware.Logger(logger))
	mux.Use(chimiddleware.Recoverer)
	mux.Use(chimiddleware.StripSlashes)

	setupCatalogRoutes(mux, h, jwt)
	setupUserRoutes(mux, h.Users, jwt)
	return mux
}
