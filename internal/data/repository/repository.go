package repository

import (
	"service-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Category     CategoryRepository
	Service      ServiceRepository
	Package      PackageRepository
	Booking      BookingRepository
	BookingItem  BookingItemRepository
	Payment      PaymentRepository
	Notification NotificationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Category:     NewCategoryRepository(db, log),
		Service:      NewServiceRepository(db, log),
		Package:      NewPackageRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		BookingItem:  NewBookingItemRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		Notification: NewNotificationRepository(db, log),
	}
}
