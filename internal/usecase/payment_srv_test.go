package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"service-booking/internal/data/entity"
	"service-booking/internal/dto/request"
	"service-booking/pkg/apperr"
	"service-booking/pkg/gateway"
	"service-booking/pkg/utils"
)

type paymentFixture struct {
	store     *fakeStore
	gateway   *fakeGateway
	mailer    *fakeMailer
	service   PaymentService
	userID    uuid.UUID
	otherID   uuid.UUID
	bookingID uuid.UUID
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	store := newFakeStore()
	repo := store.repo()
	log := zap.NewNop()
	gw := &fakeGateway{validSignature: true}
	mail := &fakeMailer{}
	config := &utils.Config{
		Email: utils.EmailConfig{AdminTo: "ops@example.com"},
	}

	fx := &paymentFixture{
		store:     store,
		gateway:   gw,
		mailer:    mail,
		userID:    uuid.New(),
		otherID:   uuid.New(),
		bookingID: uuid.New(),
	}

	store.users[fx.userID] = &entity.User{
		Base: entity.Base{ID: fx.userID}, Username: "budi",
		Email: "budi@example.com", Role: entity.RoleCustomer, IsActive: true,
	}
	store.users[fx.otherID] = &entity.User{
		Base: entity.Base{ID: fx.otherID}, Username: "sari",
		Email: "sari@example.com", Role: entity.RoleCustomer, IsActive: true,
	}
	store.bookings[fx.bookingID] = &entity.Booking{
		Base:        entity.Base{ID: fx.bookingID},
		UserID:      fx.userID,
		TotalAmount: decimal.NewFromInt(300000),
		Status:      entity.BookingStatusDikonfirmasi,
	}

	notifications := NewNotificationService(repo, mail, config, log)
	fx.service = NewPaymentService(repo, gw, mail, notifications, log)
	return fx
}

func (fx *paymentFixture) createPayment(t *testing.T) *entity.Payment {
	t.Helper()

	resp, err := fx.service.CreatePayment(context.Background(), fx.userID.String(), fx.bookingID.String(), &request.CreatePaymentRequest{Method: "QRIS"})
	require.NoError(t, err)

	id, err := uuid.Parse(resp.Payment.ID)
	require.NoError(t, err)
	return fx.store.payments[id]
}

func (fx *paymentFixture) notification(payment *entity.Payment, status string) *request.PaymentNotification {
	return &request.PaymentNotification{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: status,
		StatusCode:        "200",
		GrossAmount:       "300000.00",
		SignatureKey:      "sig",
	}
}

func TestCreatePaymentStartsPendingSession(t *testing.T) {
	fx := newPaymentFixture(t)

	resp, err := fx.service.CreatePayment(context.Background(), fx.userID.String(), fx.bookingID.String(), &request.CreatePaymentRequest{Method: "QRIS"})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusPending, resp.Payment.Status)
	assert.Equal(t, "300000", resp.Payment.Amount)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RedirectURL)

	assert.True(t, len(resp.Payment.ReferenceNo) <= 50)
	assert.Contains(t, resp.Payment.ReferenceNo, "PAY-")

	// Booking belum berubah sebelum settlement
	assert.Equal(t, entity.BookingStatusDikonfirmasi, fx.store.bookings[fx.bookingID].Status)
}

func TestCreatePaymentRequiresConfirmedBooking(t *testing.T) {
	fx := newPaymentFixture(t)
	fx.store.bookings[fx.bookingID].Status = entity.BookingStatusMenunggu

	_, err := fx.service.CreatePayment(context.Background(), fx.userID.String(), fx.bookingID.String(), &request.CreatePaymentRequest{Method: "QRIS"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreatePaymentByStrangerForbidden(t *testing.T) {
	fx := newPaymentFixture(t)

	_, err := fx.service.CreatePayment(context.Background(), fx.otherID.String(), fx.bookingID.String(), &request.CreatePaymentRequest{Method: "QRIS"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCreatePaymentSecondActiveConflicts(t *testing.T) {
	fx := newPaymentFixture(t)
	fx.createPayment(t)

	_, err := fx.service.CreatePayment(context.Background(), fx.userID.String(), fx.bookingID.String(), &request.CreatePaymentRequest{Method: "TRANSFER"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestPaymentUniqueIndexRace(t *testing.T) {
	fx := newPaymentFixture(t)
	repo := fx.store.repo()

	// Dua insert untuk booking yang sama; yang kedua kalah di unique index
	first := &entity.Payment{
		Base: entity.Base{ID: uuid.New()}, BookingID: fx.bookingID,
		Status: entity.PaymentStatusPending, ReferenceNo: "PAY-AAA",
	}
	second := &entity.Payment{
		Base: entity.Base{ID: uuid.New()}, BookingID: fx.bookingID,
		Status: entity.PaymentStatusPending, ReferenceNo: "PAY-BBB",
	}

	require.NoError(t, repo.Payment.Create(context.Background(), first))
	err := repo.Payment.Create(context.Background(), second)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestWebhookSettlementMarksPaidAndBooking(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "settlement",
		SettlementTime:    "2026-03-11 09:30:00",
	}

	err := fx.service.HandleNotification(context.Background(), fx.notification(payment, "settlement"))
	require.NoError(t, err)

	// Payment dan booking berubah berpasangan
	assert.Equal(t, entity.PaymentStatusPaid, fx.store.payments[payment.ID].Status)
	assert.Equal(t, entity.BookingStatusDibayar, fx.store.bookings[fx.bookingID].Status)
	require.NotNil(t, fx.store.payments[payment.ID].PaidAt)
	assert.Equal(t, 2026, fx.store.payments[payment.ID].PaidAt.Year())
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "settlement",
	}

	require.NoError(t, fx.service.HandleNotification(context.Background(), fx.notification(payment, "settlement")))
	callsAfterFirst := fx.gateway.statusCalls

	// Redelivery webhook yang sama: no-op tanpa query gateway ulang
	require.NoError(t, fx.service.HandleNotification(context.Background(), fx.notification(payment, "settlement")))
	assert.Equal(t, callsAfterFirst, fx.gateway.statusCalls)
	assert.Equal(t, entity.PaymentStatusPaid, fx.store.payments[payment.ID].Status)
	assert.Equal(t, entity.BookingStatusDibayar, fx.store.bookings[fx.bookingID].Status)
}

func TestWebhookPayloadStatusIsNotTrusted(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	// Payload mengaku settlement; gateway bilang masih pending
	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "pending",
	}

	require.NoError(t, fx.service.HandleNotification(context.Background(), fx.notification(payment, "settlement")))

	assert.Equal(t, entity.PaymentStatusPending, fx.store.payments[payment.ID].Status)
	assert.Equal(t, entity.BookingStatusDikonfirmasi, fx.store.bookings[fx.bookingID].Status)
}

func TestWebhookBadSignatureIgnored(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)
	fx.gateway.validSignature = false

	require.NoError(t, fx.service.HandleNotification(context.Background(), fx.notification(payment, "settlement")))

	assert.Equal(t, entity.PaymentStatusPending, fx.store.payments[payment.ID].Status)
	assert.Zero(t, fx.gateway.statusCalls)
}

func TestWebhookUnknownReferenceIgnored(t *testing.T) {
	fx := newPaymentFixture(t)

	err := fx.service.HandleNotification(context.Background(), &request.PaymentNotification{
		OrderID:           "PAY-TIDAKADA",
		TransactionStatus: "settlement",
	})
	assert.NoError(t, err)
}

func TestWebhookUnmappedStatusNoOp(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "refund",
	}

	require.NoError(t, fx.service.HandleNotification(context.Background(), fx.notification(payment, "refund")))
	assert.Equal(t, entity.PaymentStatusPending, fx.store.payments[payment.ID].Status)
}

func TestWebhookCaptureChallengeNoOp(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "capture",
		FraudStatus:       "challenge",
	}

	require.NoError(t, fx.service.HandleNotification(context.Background(), fx.notification(payment, "capture")))
	assert.Equal(t, entity.PaymentStatusPending, fx.store.payments[payment.ID].Status)
	assert.Equal(t, entity.BookingStatusDikonfirmasi, fx.store.bookings[fx.bookingID].Status)
}

func TestWebhookExpireMarksFailed(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "expire",
	}

	require.NoError(t, fx.service.HandleNotification(context.Background(), fx.notification(payment, "expire")))

	assert.Equal(t, entity.PaymentStatusFailed, fx.store.payments[payment.ID].Status)
	// Booking tetap bisa dibayar ulang
	assert.Equal(t, entity.BookingStatusDikonfirmasi, fx.store.bookings[fx.bookingID].Status)
}

func TestWebhookStorageFailureLeavesBothUntouched(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "settlement",
	}
	fx.store.failMarkPaid = true

	err := fx.service.HandleNotification(context.Background(), fx.notification(payment, "settlement"))
	require.Error(t, err)

	assert.Equal(t, entity.PaymentStatusPending, fx.store.payments[payment.ID].Status)
	assert.Equal(t, entity.BookingStatusDikonfirmasi, fx.store.bookings[fx.bookingID].Status)
}

func TestFailedPaymentAllowsNewAttempt(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "expire",
	}
	require.NoError(t, fx.service.HandleNotification(context.Background(), fx.notification(payment, "expire")))

	// Payment FAILED tidak lagi memblokir payment baru
	_, err := fx.service.CreatePayment(context.Background(), fx.userID.String(), fx.bookingID.String(), &request.CreatePaymentRequest{Method: "TRANSFER"})
	assert.NoError(t, err)
}

func TestCheckStatusReconcilesPending(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "settlement",
	}

	resp, err := fx.service.CheckStatus(context.Background(), fx.userID.String(), false, payment.ID.String())
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusPaid, resp.Status)
	assert.Equal(t, entity.BookingStatusDibayar, fx.store.bookings[fx.bookingID].Status)
}

func TestCheckStatusFinalPaymentSkipsGateway(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.store.payments[payment.ID].Status = entity.PaymentStatusPaid

	resp, err := fx.service.CheckStatus(context.Background(), fx.userID.String(), false, payment.ID.String())
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusPaid, resp.Status)
	assert.Zero(t, fx.gateway.statusCalls)
}

func TestCheckStatusStrangerForbidden(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	_, err := fx.service.CheckStatus(context.Background(), fx.otherID.String(), false, payment.ID.String())
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestSettlementAnnouncesToOwnerAndAdmins(t *testing.T) {
	fx := newPaymentFixture(t)
	payment := fx.createPayment(t)

	fx.gateway.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "settlement",
	}
	require.NoError(t, fx.service.HandleNotification(context.Background(), fx.notification(payment, "settlement")))

	assert.Eventually(t, func() bool {
		fx.store.mu.Lock()
		notified := false
		for _, n := range fx.store.notifs {
			if n.UserID == fx.userID {
				notified = true
			}
		}
		fx.store.mu.Unlock()

		fx.mailer.mu.Lock()
		mailed := len(fx.mailer.sent) > 0
		fx.mailer.mu.Unlock()

		return notified && mailed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGeneratedReferenceFitsGatewayLimit(t *testing.T) {
	for i := 0; i < 20; i++ {
		ref := utils.GeneratePaymentReference(uuid.New())
		assert.LessOrEqual(t, len(ref), 50)
		assert.Contains(t, ref, "PAY-")
	}
}

// Alur lengkap: sewa sound system 2 unit selama 3 hari, rate 50.000/unit/hari.
func TestBookingLifecycleWithSettlement(t *testing.T) {
	store := newFakeStore()
	repo := store.repo()
	log := zap.NewNop()
	gw := &fakeGateway{validSignature: true}
	mail := &fakeMailer{}
	config := &utils.Config{Email: utils.EmailConfig{AdminTo: "ops@example.com"}}

	userID := uuid.New()
	adminID := uuid.New()
	serviceID := uuid.New()

	store.users[userID] = &entity.User{
		Base: entity.Base{ID: userID}, Username: "budi",
		Email: "budi@example.com", Role: entity.RoleCustomer, IsActive: true,
	}
	store.users[adminID] = &entity.User{
		Base: entity.Base{ID: adminID}, Username: "admin",
		Email: "admin@example.com", Role: entity.RoleAdmin, IsActive: true,
	}
	store.services[serviceID] = &entity.Service{
		Base: entity.Base{ID: serviceID}, Name: "Sound System",
		UnitRate: decimal.NewFromInt(50000), IsActive: true,
	}

	notifications := NewNotificationService(repo, mail, config, log)
	bookings := NewBookingService(repo, notifications, log)
	payments := NewPaymentService(repo, gw, mail, notifications, log)

	created, err := bookings.CreateBooking(context.Background(), userID.String(), &request.CreateBookingRequest{
		StartDate: "2026-03-10",
		EndDate:   "2026-03-12",
		Items: []request.BookingItemRequest{
			{ServiceID: serviceID.String(), Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "300000", created.TotalAmount)

	require.NoError(t, bookings.ConfirmBooking(context.Background(), adminID.String(), created.ID, &request.ReviewBookingRequest{}))

	session, err := payments.CreatePayment(context.Background(), userID.String(), created.ID, &request.CreatePaymentRequest{Method: "QRIS"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.RedirectURL)

	paymentID, err := uuid.Parse(session.Payment.ID)
	require.NoError(t, err)
	payment := store.payments[paymentID]

	gw.status = &gateway.TransactionStatus{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "settlement",
		SettlementTime:    "2026-03-10 14:30:00",
	}
	require.NoError(t, payments.HandleNotification(context.Background(), &request.PaymentNotification{
		OrderID:           payment.ReferenceNo,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "300000.00",
		SignatureKey:      "sig",
	}))

	store.mu.Lock()
	assert.Equal(t, entity.PaymentStatusPaid, store.payments[paymentID].Status)
	bookingID := store.payments[paymentID].BookingID
	assert.Equal(t, entity.BookingStatusDibayar, store.bookings[bookingID].Status)
	store.mu.Unlock()

	require.NoError(t, bookings.CompleteBooking(context.Background(), adminID.String(), created.ID))

	store.mu.Lock()
	assert.Equal(t, entity.BookingStatusSelesai, store.bookings[bookingID].Status)
	store.mu.Unlock()
}

func TestCreatePaymentRecomputesNonPositiveTotal(t *testing.T) {
	fx := newPaymentFixture(t)

	booking := fx.store.bookings[fx.bookingID]
	booking.TotalAmount = decimal.Zero
	booking.StartDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	booking.EndDate = time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	fx.store.items[fx.bookingID] = []*entity.BookingItem{
		{
			BaseSimple: entity.BaseSimple{ID: uuid.New()},
			BookingID:  fx.bookingID,
			Quantity:   2,
			UnitPrice:  decimal.NewFromInt(50000),
		},
	}

	payment := fx.createPayment(t)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(300000)),
		"amount %s should be recomputed from items", payment.Amount)
	assert.EqualValues(t, 300000, fx.gateway.grossAmount)
}

func TestCreatePaymentZeroTotalWithoutItemsRejected(t *testing.T) {
	fx := newPaymentFixture(t)
	fx.store.bookings[fx.bookingID].TotalAmount = decimal.Zero

	_, err := fx.service.CreatePayment(context.Background(), fx.userID.String(), fx.bookingID.String(), &request.CreatePaymentRequest{Method: "QRIS"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreatePaymentRoundsFractionalTotalForGateway(t *testing.T) {
	fx := newPaymentFixture(t)
	fx.store.bookings[fx.bookingID].TotalAmount = decimal.RequireFromString("419999.79")

	payment := fx.createPayment(t)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("419999.79")))
	assert.EqualValues(t, 420000, fx.gateway.grossAmount)
}
