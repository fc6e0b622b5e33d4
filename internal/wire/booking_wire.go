package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"service-booking/internal/adaptor"
	"service-booking/internal/data/repository"
	"service-booking/pkg/middleware"
	"service-booking/pkg/utils"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/bookings - Create new booking
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings - View own booking history
		r.Get("/", bookingHandler.GetUserBookings)

		// GET /api/bookings/{id} - Booking detail (owner or admin)
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// PATCH /api/bookings/{id} - Edit dates/notes while MENUNGGU
		r.Patch("/{id}", bookingHandler.UpdateBooking)

		// DELETE /api/bookings/{id} - Cancel own booking
		r.Delete("/{id}", bookingHandler.CancelBooking)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		// GET /api/admin/bookings - List all bookings
		r.Get("/", bookingHandler.GetAllBookings)

		// GET /api/admin/bookings/{id} - View any booking details
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// PATCH /api/admin/bookings/{id}/confirm - Approve MENUNGGU booking
		r.Patch("/{id}/confirm", bookingHandler.ConfirmBooking)

		// PATCH /api/admin/bookings/{id}/reject - Reject MENUNGGU booking
		r.Patch("/{id}/reject", bookingHandler.RejectBooking)

		// PATCH /api/admin/bookings/{id}/complete - Close out booking
		r.Patch("/{id}/complete", bookingHandler.CompleteBooking)
	})
}
