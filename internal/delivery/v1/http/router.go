package http

import (
	"net/http"

	"github.com/dropx-tech/marketplace-backend/internal/usecase"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(listingUC usecase.ListingUC, profileUC usecase.ProfileUC, addressUC usecase.AddressUC, sessions SessionResolver) {
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		catalogHandler := NewCatalogHandler(listingUC, r.logger)
		registerCatalogRoutes(v1, catalogHandler)

		profileHandler := NewProfileHandler(profileUC, addressUC, r.logger)
		registerProfileRoutes(v1, profileHandler, sessions, r.logger)
	})
}

func registerCatalogRoutes(router chi.Router, catalogHandler *CatalogHandler) {
	router.Get("/products", catalogHandler.listCatalog)
}

func registerProfileRoutes(router chi.Router, profileHandler *ProfileHandler, sessions SessionResolver, log logger.Logger) {
	router.Route("/profile", func(pr chi.Router) {
		pr.Use(AuthMiddleware(sessions, log))
		pr.Get("/", profileHandler.handleGet)
		pr.Post("/", profileHandler.handleMutation)
		pr.Put("/", profileHandler.handleMutation)
		pr.Delete("/", profileHandler.handleMutation)
		pr.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, e.ErrMethodNotAllowed)
		})
	})
}
