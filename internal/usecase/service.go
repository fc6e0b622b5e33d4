package usecase

import (
	"go.uber.org/zap"

	"service-booking/internal/data/repository"
	"service-booking/pkg/gateway"
	"service-booking/pkg/mailer"
	"service-booking/pkg/utils"
)

type Service struct {
	Auth         AuthService
	Catalog      CatalogService
	Booking      BookingService
	Payment      PaymentService
	Notification NotificationService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	gw gateway.Client,
	mail mailer.Mailer,
	log *zap.Logger,
) *Service {
	notifications := NewNotificationService(repo, mail, config, log)

	return &Service{
		Auth:         NewAuthService(repo, config, log),
		Catalog:      NewCatalogService(repo, log),
		Booking:      NewBookingService(repo, notifications, log),
		Payment:      NewPaymentService(repo, gw, mail, notifications, log),
		Notification: notifications,
	}
}
