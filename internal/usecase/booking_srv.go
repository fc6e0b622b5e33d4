package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/internal/dto/request"
	"service-booking/internal/dto/response"
	"service-booking/pkg/apperr"
	"service-booking/pkg/utils"
)

// allowedTransitions adalah satu-satunya sumber kebenaran perpindahan status.
// Status yang tidak punya entry (DITOLAK, DIBATALKAN, SELESAI) bersifat final.
var allowedTransitions = map[entity.BookingStatus]map[entity.BookingStatus]bool{
	entity.BookingStatusMenunggu: {
		entity.BookingStatusDikonfirmasi: true,
		entity.BookingStatusDitolak:      true,
		entity.BookingStatusDibatalkan:   true,
	},
	entity.BookingStatusDikonfirmasi: {
		entity.BookingStatusDibayar:    true,
		entity.BookingStatusDibatalkan: true,
		entity.BookingStatusSelesai:    true,
	},
	entity.BookingStatusDibayar: {
		entity.BookingStatusSelesai: true,
	},
}

func canTransition(from, to entity.BookingStatus) bool {
	return allowedTransitions[from][to]
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, userID string, isAdmin bool, bookingID string) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, userID, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID, bookingID string) error

	// Admin
	GetAllBookings(ctx context.Context, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ConfirmBooking(ctx context.Context, adminID, bookingID string, req *request.ReviewBookingRequest) error
	RejectBooking(ctx context.Context, adminID, bookingID string, req *request.ReviewBookingRequest) error
	CompleteBooking(ctx context.Context, adminID, bookingID string) error
}

type bookingService struct {
	repo          *repository.Repository
	notifications NotificationService
	log           *zap.Logger
}

func NewBookingService(repo *repository.Repository, notifications NotificationService, log *zap.Logger) BookingService {
	return &bookingService{
		repo:          repo,
		notifications: notifications,
		log:           log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, apperr.Validationf("invalid user id")
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	durationDays := DurationDays(startDate, endDate)

	// 2. Resolve harga per item. Unit price dibekukan di sini; perubahan
	// tarif katalog setelahnya tidak mengubah booking yang sudah ada.
	bookingID := uuid.New()
	now := time.Now()

	items := make([]*entity.BookingItem, 0, len(req.Items))
	for i, itemReq := range req.Items {
		item, err := s.resolveItem(ctx, bookingID, &itemReq)
		if err != nil {
			s.log.Warn("Failed to resolve booking item",
				zap.Int("index", i), zap.Error(err))
			return nil, err
		}
		item.CreatedAt = now
		items = append(items, item)
	}

	total := Reprice(items, durationDays)
	if !total.IsPositive() {
		return nil, apperr.Validationf("booking total must be positive")
	}

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        bookingID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      userUUID,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalAmount: total,
		Status:      entity.BookingStatusMenunggu,
		Notes:       req.Notes,
	}

	// 3. Simpan booking + items atomik
	if err := s.repo.Booking.CreateWithItems(ctx, booking, items); err != nil {
		s.log.Error("Failed to create booking", zap.Error(err))
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID),
		zap.String("total", total.String()),
		zap.Int("duration_days", durationDays))

	resp := response.BookingToResponse(booking, items, durationDays, nil)
	return &resp, nil
}

// resolveItem memvalidasi service/package dan membekukan unit price-nya.
func (s *bookingService) resolveItem(ctx context.Context, bookingID uuid.UUID, req *request.BookingItemRequest) (*entity.BookingItem, error) {
	serviceID, err := utils.ParseUUID(req.ServiceID)
	if err != nil {
		return nil, apperr.Validationf("invalid service id")
	}

	svc, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	if svc == nil {
		return nil, apperr.NotFoundf("service %s not found", req.ServiceID)
	}
	if !svc.IsActive {
		return nil, apperr.Conflictf("service %s is not active", svc.Name)
	}

	item := &entity.BookingItem{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		BookingID:  bookingID,
		ServiceID:  serviceID,
		Quantity:   req.Quantity,
		UnitPrice:  svc.UnitRate,
	}

	if req.PackageID != nil {
		packageID, err := utils.ParseUUID(*req.PackageID)
		if err != nil {
			return nil, apperr.Validationf("invalid package id")
		}

		pkg, err := s.repo.Package.FindByID(ctx, packageID)
		if err != nil {
			return nil, fmt.Errorf("failed to find package: %w", err)
		}
		if pkg == nil {
			return nil, apperr.NotFoundf("package %s not found", *req.PackageID)
		}
		if pkg.ServiceID != serviceID {
			return nil, apperr.Conflictf("package does not belong to service %s", svc.Name)
		}
		if !pkg.IsActive {
			return nil, apperr.Conflictf("package %s is not active", pkg.Name)
		}

		item.PackageID = &pkg.ID
		item.UnitPrice = pkg.UnitRate
	}

	return item, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, apperr.Validationf("invalid user id")
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list user bookings", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	return response.NewPaginatedResponse(s.convertBookings(ctx, bookings), page.Page, page.Limit(), total), nil
}

func (s *bookingService) GetAllBookings(ctx context.Context, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	return response.NewPaginatedResponse(s.convertBookings(ctx, bookings), page.Page, page.Limit(), total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, userID string, isAdmin bool, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Pemilik atau admin saja
	if !isAdmin && booking.UserID.String() != userID {
		s.log.Warn("Booking access denied",
			zap.String("booking_id", bookingID), zap.String("user_id", userID))
		return nil, apperr.Forbiddenf("booking does not belong to you")
	}

	items, err := s.repo.BookingItem.FindByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to load booking items", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to load booking items: %w", err)
	}

	var paymentResp *response.PaymentResponse
	payment, err := s.repo.Payment.FindActiveByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to load booking payment", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment != nil {
		p := response.PaymentToResponse(payment)
		paymentResp = &p
	}

	resp := response.BookingToResponse(booking, items, DurationDays(booking.StartDate, booking.EndDate), paymentResp)
	return &resp, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, userID, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID.String() != userID {
		return nil, apperr.Forbiddenf("booking does not belong to you")
	}

	// Edit hanya selama masih MENUNGGU. Setelah direview admin, tanggal dan
	// harga terkunci.
	if booking.Status != entity.BookingStatusMenunggu {
		return nil, apperr.Conflictf("booking %s can no longer be edited", booking.Status)
	}

	if req.StartDate != nil {
		startDate, err := utils.ParseDate(*req.StartDate)
		if err != nil {
			return nil, apperr.Validationf("invalid start date")
		}
		booking.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := utils.ParseDate(*req.EndDate)
		if err != nil {
			return nil, apperr.Validationf("invalid end date")
		}
		booking.EndDate = endDate
	}
	if booking.EndDate.Before(booking.StartDate) {
		return nil, apperr.Validationf("end date must not be before start date")
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}

	items, err := s.repo.BookingItem.FindByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to load booking items", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to load booking items: %w", err)
	}

	// Reprice dengan unit price beku; hanya durasi yang berubah
	durationDays := DurationDays(booking.StartDate, booking.EndDate)
	booking.TotalAmount = Reprice(items, durationDays)
	booking.UpdatedAt = time.Now()

	if err := s.repo.Booking.UpdateWithItems(ctx, booking, items); err != nil {
		s.log.Error("Failed to update booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", bookingID),
		zap.String("total", booking.TotalAmount.String()))

	resp := response.BookingToResponse(booking, items, durationDays, nil)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID.String() != userID {
		return apperr.Forbiddenf("booking does not belong to you")
	}

	return s.transition(ctx, booking, entity.BookingStatusDibatalkan, nil, "")
}

func (s *bookingService) ConfirmBooking(ctx context.Context, adminID, bookingID string, req *request.ReviewBookingRequest) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	adminUUID, err := utils.ParseUUID(adminID)
	if err != nil {
		return apperr.Validationf("invalid admin id")
	}

	if err := s.transition(ctx, booking, entity.BookingStatusDikonfirmasi, &adminUUID, req.Notes); err != nil {
		return err
	}

	s.notifyOwner(booking, "Booking dikonfirmasi",
		fmt.Sprintf("Booking %s telah dikonfirmasi. Silakan lanjutkan pembayaran.", booking.ID))
	return nil
}

func (s *bookingService) RejectBooking(ctx context.Context, adminID, bookingID string, req *request.ReviewBookingRequest) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	adminUUID, err := utils.ParseUUID(adminID)
	if err != nil {
		return apperr.Validationf("invalid admin id")
	}

	if err := s.transition(ctx, booking, entity.BookingStatusDitolak, &adminUUID, req.Notes); err != nil {
		return err
	}

	s.notifyOwner(booking, "Booking ditolak",
		fmt.Sprintf("Booking %s ditolak. Catatan: %s", booking.ID, req.Notes))
	return nil
}

func (s *bookingService) CompleteBooking(ctx context.Context, adminID, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	adminUUID, err := utils.ParseUUID(adminID)
	if err != nil {
		return apperr.Validationf("invalid admin id")
	}

	// Penyelesaian dari DIKONFIRMASI (belum bayar via gateway, misal CASH)
	// sah tapi dicatat supaya kelihatan di log operasional.
	if booking.Status == entity.BookingStatusDikonfirmasi {
		s.log.Warn("Completing booking without settled payment",
			zap.String("booking_id", bookingID),
			zap.String("admin_id", adminID))
	}

	if err := s.transition(ctx, booking, entity.BookingStatusSelesai, &adminUUID, ""); err != nil {
		return err
	}

	s.notifyOwner(booking, "Booking selesai",
		fmt.Sprintf("Booking %s telah selesai. Terima kasih.", booking.ID))
	return nil
}

// transition menegakkan allow-list lalu mempersist status baru. Transisi
// ilegal mengembalikan Conflict tanpa menyentuh state.
func (s *bookingService) transition(ctx context.Context, booking *entity.Booking, to entity.BookingStatus, approverID *uuid.UUID, notes string) error {
	if !canTransition(booking.Status, to) {
		s.log.Warn("Illegal booking transition rejected",
			zap.String("booking_id", booking.ID.String()),
			zap.String("from", string(booking.Status)),
			zap.String("to", string(to)))
		return apperr.Conflictf("cannot move booking from %s to %s", booking.Status, to)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, to, approverID, notes); err != nil {
		s.log.Error("Failed to update booking status",
			zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(to)))

	booking.Status = to
	return nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := utils.ParseUUID(bookingID)
	if err != nil {
		return nil, apperr.Validationf("invalid booking id")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFoundf("booking not found")
	}
	return booking, nil
}

func (s *bookingService) convertBookings(ctx context.Context, bookings []*entity.Booking) []response.BookingResponse {
	result := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		// Listing tanpa items; detail lengkap lewat GetBookingByID
		result = append(result, response.BookingToResponse(
			booking, nil, DurationDays(booking.StartDate, booking.EndDate), nil))
	}
	return result
}

// notifyOwner best effort; kegagalan notifikasi tidak menggagalkan operasi.
func (s *bookingService) notifyOwner(booking *entity.Booking, title, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifications.Notify(ctx, booking.UserID, title, body); err != nil {
			s.log.Warn("Failed to notify booking owner",
				zap.Error(err), zap.String("booking_id", booking.ID.String()))
		}
	}()
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := utils.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validationf("invalid start date")
	}
	endDate, err := utils.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validationf("invalid end date")
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, apperr.Validationf("end date must not be before start date")
	}
	return startDate, endDate, nil
}
