package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"service-booking/internal/adaptor"
	"service-booking/internal/data/repository"
	"service-booking/pkg/middleware"
	"service-booking/pkg/utils"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/categories", catalogHandler.GetCategories)
	r.Get("/api/services", catalogHandler.GetServices)
	r.Get("/api/services/{id}", catalogHandler.GetServiceByID)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/categories", catalogHandler.CreateCategory)
		r.Put("/categories/{id}", catalogHandler.UpdateCategory)
		r.Delete("/categories/{id}", catalogHandler.DeleteCategory)

		r.Post("/services", catalogHandler.CreateService)
		r.Put("/services/{id}", catalogHandler.UpdateService)

		r.Post("/services/{id}/packages", catalogHandler.CreatePackage)
		r.Put("/packages/{id}", catalogHandler.UpdatePackage)
	})
}
