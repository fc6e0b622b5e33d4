package adaptor

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"service-booking/internal/data/entity"
	"service-booking/internal/dto/request"
	"service-booking/internal/usecase"
	"service-booking/pkg/utils"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// GetUserBookings handles GET /api/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID.String(), paginationFromQuery(r))
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), userID.String(), isAdminRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// UpdateBooking handles PATCH /api/bookings/{id} (protected)
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), userID.String(), chi.URLParam(r, "id"), &req)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Booking updated", booking)
}

// CancelBooking handles DELETE /api/bookings/{id} (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.CancelBooking(r.Context(), userID.String(), chi.URLParam(r, "id")); err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", nil)
}

// GetAllBookings handles GET /api/admin/bookings (admin)
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetAllBookings(r.Context(), paginationFromQuery(r))
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ConfirmBooking handles PATCH /api/admin/bookings/{id}/confirm (admin)
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.ConfirmBooking, "Booking confirmed")
}

// RejectBooking handles PATCH /api/admin/bookings/{id}/reject (admin)
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.RejectBooking, "Booking rejected")
}

// CompleteBooking handles PATCH /api/admin/bookings/{id}/complete (admin)
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.CompleteBooking(r.Context(), adminID.String(), chi.URLParam(r, "id")); err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Booking completed", nil)
}

// review adalah jalur bersama confirm/reject: sama-sama admin + catatan opsional.
func (h *BookingHandler) review(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, adminID, bookingID string, req *request.ReviewBookingRequest) error,
	message string,
) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ReviewBookingRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	if err := action(r.Context(), adminID.String(), chi.URLParam(r, "id"), &req); err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, message, nil)
}

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

func isAdminRequest(r *http.Request) bool {
	role, ok := utils.GetRoleFromContext(r.Context())
	return ok && role == string(entity.RoleAdmin)
}
