package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// IsActive reports whether the payment blocks creation of a new one.
func (s PaymentStatus) IsActive() bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

type PaymentMethod string

const (
	PaymentMethodQRIS     PaymentMethod = "QRIS"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCash     PaymentMethod = "CASH"
)

type Payment struct {
	Base
	BookingID   uuid.UUID       `db:"booking_id"`
	Amount      decimal.Decimal `db:"amount"`
	Method      PaymentMethod   `db:"method"`
	Status      PaymentStatus   `db:"status"`
	ReferenceNo string          `db:"reference_no"`
	PaidAt      *time.Time      `db:"paid_at"`
	ProofURL    string          `db:"proof_url"`
}
