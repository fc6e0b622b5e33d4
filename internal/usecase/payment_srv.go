package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/internal/dto/request"
	"service-booking/internal/dto/response"
	"service-booking/pkg/apperr"
	"service-booking/pkg/gateway"
	"service-booking/pkg/mailer"
	"service-booking/pkg/utils"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, userID, bookingID string, req *request.CreatePaymentRequest) (*response.CreatePaymentResponse, error)

	// HandleNotification memproses webhook gateway. Error yang dikembalikan
	// hanya untuk logging; handler HTTP selalu membalas 2xx supaya gateway
	// berhenti retry.
	HandleNotification(ctx context.Context, payload *request.PaymentNotification) error

	// CheckStatus menjalankan jalur rekonsiliasi yang sama dengan webhook,
	// dipicu manual dari API.
	CheckStatus(ctx context.Context, userID string, isAdmin bool, paymentID string) (*response.PaymentResponse, error)
}

type paymentService struct {
	repo          *repository.Repository
	gateway       gateway.Client
	mailer        mailer.Mailer
	notifications NotificationService
	log           *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	gw gateway.Client,
	mail mailer.Mailer,
	notifications NotificationService,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:          repo,
		gateway:       gw,
		mailer:        mail,
		notifications: notifications,
		log:           log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, userID, bookingID string, req *request.CreatePaymentRequest) (*response.CreatePaymentResponse, error) {
	// 1. Validasi
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create payment validation failed", zap.Any("errors", errs))
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookingUUID, err := utils.ParseUUID(bookingID)
	if err != nil {
		return nil, apperr.Validationf("invalid booking id")
	}

	// 2. Booking harus milik pemanggil dan sudah dikonfirmasi
	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.NotFoundf("booking not found")
	}
	if booking.UserID.String() != userID {
		return nil, apperr.Forbiddenf("booking does not belong to you")
	}
	if booking.Status != entity.BookingStatusDikonfirmasi {
		return nil, apperr.Conflictf("booking %s is not payable", booking.Status)
	}

	// 3. Satu payment aktif per booking. Cek dulu supaya errornya jelas;
	// race tetap dijaga partial unique index di tabel payments.
	active, err := s.repo.Payment.FindActiveByBookingID(ctx, bookingUUID)
	if err != nil {
		s.log.Error("Failed to check active payment", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to check active payment: %w", err)
	}
	if active != nil {
		return nil, apperr.Conflictf("booking already has an active payment")
	}

	// Total tersimpan bisa nol pada data lama; hitung ulang dari item yang
	// harganya sudah beku sebelum menolak.
	amount := booking.TotalAmount
	if !amount.IsPositive() {
		items, err := s.repo.BookingItem.FindByBookingID(ctx, booking.ID)
		if err != nil {
			s.log.Error("Failed to load booking items", zap.Error(err), zap.String("booking_id", bookingID))
			return nil, fmt.Errorf("failed to load booking items: %w", err)
		}

		amount = Reprice(items, DurationDays(booking.StartDate, booking.EndDate))
		if !amount.IsPositive() {
			return nil, apperr.Validationf("booking total must be positive")
		}
		s.log.Warn("Stored booking total not positive, recomputed from items",
			zap.String("booking_id", bookingID),
			zap.String("amount", amount.String()))
	}

	user, err := s.repo.User.FindByID(ctx, booking.UserID)
	if err != nil || user == nil {
		s.log.Error("Failed to load booking owner", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("failed to load booking owner")
	}

	// 4. Buat sesi checkout di gateway
	referenceNo := utils.GeneratePaymentReference(booking.ID)
	customer := gateway.Customer{
		Name:  user.Username,
		Email: user.Email,
	}
	if user.Phone != nil {
		customer.Phone = *user.Phone
	}

	session, err := s.gateway.CreateSession(referenceNo, amount.Round(0).IntPart(), customer)
	if err != nil {
		s.log.Error("Failed to create gateway session",
			zap.Error(err), zap.String("reference_no", referenceNo))
		return nil, err
	}

	// 5. Persist payment PENDING
	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:   booking.ID,
		Amount:      amount,
		Method:      entity.PaymentMethod(req.Method),
		Status:      entity.PaymentStatusPending,
		ReferenceNo: referenceNo,
		ProofURL:    session.RedirectURL,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		// Unique violation dari index partial berarti kalah race
		return nil, err
	}

	s.log.Info("Payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", bookingID),
		zap.String("reference_no", referenceNo),
		zap.String("amount", amount.String()))

	return &response.CreatePaymentResponse{
		Payment:     response.PaymentToResponse(payment),
		Token:       session.Token,
		RedirectURL: session.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, payload *request.PaymentNotification) error {
	log := s.log.With(zap.String("order_id", payload.OrderID))

	// 1. Verifikasi signature. Payload dengan signature salah di-ack tanpa
	// efek apa pun supaya tidak jadi amplifier retry.
	if !s.gateway.VerifySignature(payload.OrderID, payload.StatusCode, payload.GrossAmount, payload.SignatureKey) {
		log.Warn("Webhook signature mismatch, ignoring")
		return nil
	}

	// 2. Cari payment berdasarkan reference
	payment, err := s.repo.Payment.FindByReferenceNo(ctx, payload.OrderID)
	if err != nil {
		log.Error("Failed to find payment by reference", zap.Error(err))
		return fmt.Errorf("failed to find payment: %w", err)
	}
	if payment == nil {
		// Gateway kadang memotong order_id; coba prefix match
		payment, err = s.repo.Payment.FindByReferencePrefix(ctx, payload.OrderID)
		if err != nil {
			log.Error("Failed to find payment by reference prefix", zap.Error(err))
			return fmt.Errorf("failed to find payment: %w", err)
		}
	}
	if payment == nil {
		log.Warn("Webhook for unknown reference, ignoring")
		return nil
	}

	// 3. Redelivery webhook sukses atas payment yang sudah PAID: no-op
	if payment.Status == entity.PaymentStatusPaid && isSuccessStatus(payload.TransactionStatus) {
		log.Info("Duplicate success webhook, already paid",
			zap.String("payment_id", payment.ID.String()))
		return nil
	}

	// 4. Status di payload tidak dipercaya; tanya ulang gateway
	authoritative, err := s.gateway.GetTransactionStatus(payment.ReferenceNo)
	if err != nil {
		log.Error("Failed to re-query transaction status", zap.Error(err))
		return err
	}

	return s.applyGatewayStatus(ctx, payment, authoritative)
}

func (s *paymentService) CheckStatus(ctx context.Context, userID string, isAdmin bool, paymentID string) (*response.PaymentResponse, error) {
	paymentUUID, err := utils.ParseUUID(paymentID)
	if err != nil {
		return nil, apperr.Validationf("invalid payment id")
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentUUID)
	if err != nil {
		s.log.Error("Failed to find payment", zap.Error(err), zap.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	if payment == nil {
		return nil, apperr.NotFoundf("payment not found")
	}

	if !isAdmin {
		booking, err := s.repo.Booking.FindByID(ctx, payment.BookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to find booking: %w", err)
		}
		if booking == nil || booking.UserID.String() != userID {
			return nil, apperr.Forbiddenf("payment does not belong to you")
		}
	}

	// Payment final tidak perlu ke gateway lagi
	if payment.Status == entity.PaymentStatusPending {
		authoritative, err := s.gateway.GetTransactionStatus(payment.ReferenceNo)
		if err != nil {
			return nil, err
		}

		if err := s.applyGatewayStatus(ctx, payment, authoritative); err != nil {
			return nil, err
		}

		payment, err = s.repo.Payment.FindByID(ctx, paymentUUID)
		if err != nil || payment == nil {
			return nil, fmt.Errorf("failed to reload payment")
		}
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

// applyGatewayStatus memetakan status otoritatif gateway ke status lokal dan
// mempersistnya. Update payment + booking terjadi dalam satu transaksi di
// repository.
func (s *paymentService) applyGatewayStatus(ctx context.Context, payment *entity.Payment, ts *gateway.TransactionStatus) error {
	log := s.log.With(
		zap.String("payment_id", payment.ID.String()),
		zap.String("reference_no", payment.ReferenceNo),
		zap.String("gateway_status", ts.TransactionStatus))

	mapped, ok := mapGatewayStatus(ts)
	if !ok {
		// Status di luar tabel pemetaan tidak menebak; cukup dicatat
		log.Warn("Unmapped gateway status, no state change",
			zap.String("fraud_status", ts.FraudStatus))
		return nil
	}

	switch mapped {
	case entity.PaymentStatusPaid:
		paidAt := time.Now()
		if ts.SettlementTime != "" {
			if t, err := time.Parse("2006-01-02 15:04:05", ts.SettlementTime); err == nil {
				paidAt = t
			}
		}

		applied, err := s.repo.Payment.MarkPaid(ctx, payment.ID, paidAt)
		if err != nil {
			log.Error("Failed to mark payment paid", zap.Error(err))
			return fmt.Errorf("failed to mark payment paid: %w", err)
		}
		if !applied {
			log.Info("Payment already settled, skipping")
			return nil
		}

		log.Info("Payment settled, booking marked DIBAYAR")
		s.announceSettlement(payment)

	case entity.PaymentStatusFailed:
		applied, err := s.repo.Payment.MarkFailed(ctx, payment.ID)
		if err != nil {
			log.Error("Failed to mark payment failed", zap.Error(err))
			return fmt.Errorf("failed to mark payment failed: %w", err)
		}
		if applied {
			log.Info("Payment marked failed")
		}

	case entity.PaymentStatusPending:
		log.Info("Payment still pending at gateway")
	}

	return nil
}

// announceSettlement best effort: notifikasi in-app ke pemilik, email ke
// pemilik, dan fan-out ke admin.
func (s *paymentService) announceSettlement(payment *entity.Payment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		booking, err := s.repo.Booking.FindByID(ctx, payment.BookingID)
		if err != nil || booking == nil {
			s.log.Warn("Failed to load booking for settlement announcement",
				zap.Error(err), zap.String("booking_id", payment.BookingID.String()))
			return
		}

		body := fmt.Sprintf("Pembayaran %s untuk booking %s telah diterima.",
			payment.ReferenceNo, booking.ID)

		if err := s.notifications.Notify(ctx, booking.UserID, "Pembayaran diterima", body); err != nil {
			s.log.Warn("Failed to notify payer", zap.Error(err))
		}
		if err := s.notifications.NotifyAdmins(ctx, "Pembayaran masuk", body); err != nil {
			s.log.Warn("Failed to notify admins", zap.Error(err))
		}

		if user, err := s.repo.User.FindByID(ctx, booking.UserID); err == nil && user != nil {
			if err := s.mailer.SendMail(user.Email, "Pembayaran diterima", body); err != nil {
				s.log.Warn("Failed to email payer", zap.Error(err))
			}
		}
	}()
}

// mapGatewayStatus adalah tabel pemetaan eksplisit status gateway -> lokal.
// Kombinasi di luar tabel (termasuk capture dengan fraud challenge)
// mengembalikan ok=false.
func mapGatewayStatus(ts *gateway.TransactionStatus) (entity.PaymentStatus, bool) {
	switch ts.TransactionStatus {
	case "capture":
		if ts.FraudStatus == "accept" {
			return entity.PaymentStatusPaid, true
		}
		return "", false
	case "settlement":
		return entity.PaymentStatusPaid, true
	case "deny", "cancel", "expire":
		return entity.PaymentStatusFailed, true
	case "pending":
		return entity.PaymentStatusPending, true
	default:
		return "", false
	}
}

func isSuccessStatus(status string) bool {
	return status == "settlement" || status == "capture"
}
