package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/pkg/apperr"
	"service-booking/pkg/gateway"
)

// In-memory fakes untuk seluruh repository. Map dibagi antar fake supaya
// MarkPaid bisa meniru transaksi payment+booking.

type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session
	cats     map[uuid.UUID]*entity.Category
	services map[uuid.UUID]*entity.Service
	packages map[uuid.UUID]*entity.Package
	bookings map[uuid.UUID]*entity.Booking
	items    map[uuid.UUID][]*entity.BookingItem
	payments map[uuid.UUID]*entity.Payment
	notifs   []*entity.Notification

	failMarkPaid    bool
	failMarkFailed  bool
	failUpdateState bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[uuid.UUID]*entity.Session),
		cats:     make(map[uuid.UUID]*entity.Category),
		services: make(map[uuid.UUID]*entity.Service),
		packages: make(map[uuid.UUID]*entity.Package),
		bookings: make(map[uuid.UUID]*entity.Booking),
		items:    make(map[uuid.UUID][]*entity.BookingItem),
		payments: make(map[uuid.UUID]*entity.Payment),
	}
}

func (s *fakeStore) repo() *repository.Repository {
	return &repository.Repository{
		User:         &fakeUserRepo{s},
		Session:      &fakeSessionRepo{s},
		Category:     &fakeCategoryRepo{s},
		Service:      &fakeServiceRepo{s},
		Package:      &fakePackageRepo{s},
		Booking:      &fakeBookingRepo{s},
		BookingItem:  &fakeBookingItemRepo{s},
		Payment:      &fakePaymentRepo{s},
		Notification: &fakeNotificationRepo{s},
	}
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAdmins(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var admins []*entity.User
	for _, u := range r.s.users {
		if u.Role == entity.RoleAdmin {
			admins = append(admins, u)
		}
	}
	return admins, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

type fakeSessionRepo struct{ s *fakeStore }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	session := r.s.sessions[parsed]
	if session == nil || session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	parsed, err := uuid.Parse(token)
	if err != nil {
		return err
	}
	delete(r.s.sessions, parsed)
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for token, session := range r.s.sessions {
		if session.UserID == userID {
			delete(r.s.sessions, token)
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(_ context.Context) error { return nil }

type fakeCategoryRepo struct{ s *fakeStore }

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cats[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.cats[id], nil
}

func (r *fakeCategoryRepo) FindAll(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Category
	for _, c := range r.s.cats {
		result = append(result, c)
	}
	return result, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cats[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.cats, id)
	return nil
}

type fakeServiceRepo struct{ s *fakeStore }

func (r *fakeServiceRepo) Create(_ context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services[svc.ID] = svc
	return nil
}

func (r *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.services[id], nil
}

func (r *fakeServiceRepo) FindAll(_ context.Context, activeOnly bool) ([]*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Service
	for _, svc := range r.s.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		result = append(result, svc)
	}
	return result, nil
}

func (r *fakeServiceRepo) Update(_ context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services[svc.ID] = svc
	return nil
}

func (r *fakeServiceRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if svc := r.s.services[id]; svc != nil {
		svc.IsActive = active
	}
	return nil
}

type fakePackageRepo struct{ s *fakeStore }

func (r *fakePackageRepo) Create(_ context.Context, pkg *entity.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.packages[pkg.ID] = pkg
	return nil
}

func (r *fakePackageRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.packages[id], nil
}

func (r *fakePackageRepo) FindByServiceID(_ context.Context, serviceID uuid.UUID) ([]*entity.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Package
	for _, pkg := range r.s.packages {
		if pkg.ServiceID == serviceID {
			result = append(result, pkg)
		}
	}
	return result, nil
}

func (r *fakePackageRepo) Update(_ context.Context, pkg *entity.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.packages[pkg.ID] = pkg
	return nil
}

func (r *fakePackageRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if pkg := r.s.packages[id]; pkg != nil {
		pkg.IsActive = active
	}
	return nil
}

type fakeBookingRepo struct{ s *fakeStore }

func (r *fakeBookingRepo) CreateWithItems(_ context.Context, booking *entity.Booking, items []*entity.BookingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[booking.ID] = booking
	r.s.items[booking.ID] = items
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	booking := r.s.bookings[id]
	if booking == nil {
		return nil, nil
	}
	clone := *booking
	return &clone, nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range r.s.bookings {
		if booking.UserID == userID {
			result = append(result, booking)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, booking := range r.s.bookings {
		if booking.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range r.s.bookings {
		result = append(result, booking)
	}
	return result, nil
}

func (r *fakeBookingRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.bookings)), nil
}

func (r *fakeBookingRepo) UpdateWithItems(_ context.Context, booking *entity.Booking, items []*entity.BookingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[booking.ID] = booking
	r.s.items[booking.ID] = items
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus, approverID *uuid.UUID, notes string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUpdateState {
		return errors.New("storage unavailable")
	}
	booking := r.s.bookings[bookingID]
	if booking == nil {
		return errors.New("booking not found")
	}
	booking.Status = status
	if approverID != nil {
		booking.ApproverID = approverID
	}
	if notes != "" {
		if booking.Notes == "" {
			booking.Notes = notes
		} else {
			booking.Notes = booking.Notes + "\n" + notes
		}
	}
	return nil
}

type fakeBookingItemRepo struct{ s *fakeStore }

func (r *fakeBookingItemRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.items[bookingID], nil
}

type fakePaymentRepo struct{ s *fakeStore }

func (r *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Tiruan partial unique index payments(booking_id) status aktif
	for _, existing := range r.s.payments {
		if existing.BookingID == payment.BookingID && existing.Status.IsActive() {
			return apperr.Conflictf("booking %s already has an active payment", payment.BookingID)
		}
	}
	r.s.payments[payment.ID] = payment
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment := r.s.payments[id]
	if payment == nil {
		return nil, nil
	}
	clone := *payment
	return &clone, nil
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Payment
	for _, payment := range r.s.payments {
		if payment.BookingID == bookingID {
			result = append(result, payment)
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) FindActiveByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, payment := range r.s.payments {
		if payment.BookingID == bookingID && payment.Status.IsActive() {
			return payment, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByReferenceNo(_ context.Context, referenceNo string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, payment := range r.s.payments {
		if payment.ReferenceNo == referenceNo {
			return payment, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByReferencePrefix(_ context.Context, prefix string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, payment := range r.s.payments {
		if strings.HasPrefix(payment.ReferenceNo, prefix) {
			return payment, nil
		}
	}
	return nil, nil
}

// MarkPaid meniru transaksi: payment dan booking berubah bersama atau tidak
// sama sekali.
func (r *fakePaymentRepo) MarkPaid(_ context.Context, paymentID uuid.UUID, paidAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failMarkPaid {
		return false, errors.New("storage unavailable")
	}
	payment := r.s.payments[paymentID]
	if payment == nil {
		return false, errors.New("payment not found")
	}
	if payment.Status == entity.PaymentStatusPaid {
		return false, nil
	}
	booking := r.s.bookings[payment.BookingID]
	if booking == nil {
		return false, errors.New("booking not found")
	}
	payment.Status = entity.PaymentStatusPaid
	payment.PaidAt = &paidAt
	booking.Status = entity.BookingStatusDibayar
	return true, nil
}

func (r *fakePaymentRepo) MarkFailed(_ context.Context, paymentID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failMarkFailed {
		return false, errors.New("storage unavailable")
	}
	payment := r.s.payments[paymentID]
	if payment == nil || payment.Status != entity.PaymentStatusPending {
		return false, nil
	}
	payment.Status = entity.PaymentStatusFailed
	return true, nil
}

type fakeNotificationRepo struct{ s *fakeStore }

func (r *fakeNotificationRepo) Create(_ context.Context, notification *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifs = append(r.s.notifs, notification)
	return nil
}

func (r *fakeNotificationRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Notification
	for _, n := range r.s.notifs {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.notifs {
		if n.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.notifs {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifs {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return apperr.NotFoundf("notification %s not found", id)
}

// fakeGateway scripted per test.
type fakeGateway struct {
	mu             sync.Mutex
	session        *gateway.Session
	sessionErr     error
	status         *gateway.TransactionStatus
	statusErr      error
	validSignature bool
	statusCalls    int
	grossAmount    int64
}

func (g *fakeGateway) CreateSession(referenceNo string, grossAmount int64, customer gateway.Customer) (*gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.grossAmount = grossAmount
	if g.sessionErr != nil {
		return nil, g.sessionErr
	}
	if g.session != nil {
		return g.session, nil
	}
	return &gateway.Session{Token: "tok-" + referenceNo, RedirectURL: "https://pay.test/" + referenceNo}, nil
}

func (g *fakeGateway) GetTransactionStatus(referenceNo string) (*gateway.TransactionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls++
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	if g.status != nil {
		return g.status, nil
	}
	return &gateway.TransactionStatus{OrderID: referenceNo, TransactionStatus: "pending"}, nil
}

func (g *fakeGateway) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.validSignature
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) SendMail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+": "+subject)
	return nil
}
