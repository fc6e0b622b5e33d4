package adaptor

import (
	"go.uber.org/zap"

	"service-booking/internal/usecase"
)

type Handler struct {
	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Booking      *BookingHandler
	Payment      *PaymentHandler
	Notification *NotificationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Catalog:      NewCatalogHandler(service.Catalog, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Payment:      NewPaymentHandler(service.Payment, log),
		Notification: NewNotificationHandler(service.Notification, log),
	}
}
