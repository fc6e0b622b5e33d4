package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"service-booking/internal/adaptor"
	"service-booking/internal/data/repository"
	"service-booking/pkg/middleware"
	"service-booking/pkg/utils"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/notifications - Own notifications + unread count
		r.Get("/", notificationHandler.GetNotifications)

		// PATCH /api/notifications/{id}/read - Mark one as read
		r.Patch("/{id}/read", notificationHandler.MarkRead)
	})
}
