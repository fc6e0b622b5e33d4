package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"service-booking/internal/adaptor"
	"service-booking/internal/data/repository"
	"service-booking/pkg/middleware"
	"service-booking/pkg/utils"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Webhook gateway; tanpa auth, integritas dijaga verifikasi signature
	r.Post("/api/payments/notification", paymentHandler.HandleNotification)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/payments/create/{bookingId} - Start checkout session
		r.Post("/api/payments/create/{bookingId}", paymentHandler.CreatePayment)

		// GET /api/payments/{id}/status - Manual reconcile against gateway
		r.Get("/api/payments/{id}/status", paymentHandler.CheckStatus)
	})
}
