package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"service-booking/internal/adaptor"
	"service-booking/internal/data/repository"
	"service-booking/pkg/middleware"
	"service-booking/pkg/utils"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo.Session, log)).Post("/api/logout", authHandler.Logout)
}
