package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusMenunggu     BookingStatus = "MENUNGGU"
	BookingStatusDikonfirmasi BookingStatus = "DIKONFIRMASI"
	BookingStatusDibayar      BookingStatus = "DIBAYAR"
	BookingStatusDitolak      BookingStatus = "DITOLAK"
	BookingStatusDibatalkan   BookingStatus = "DIBATALKAN"
	BookingStatusSelesai      BookingStatus = "SELESAI"
)

// IsTerminal reports whether no further status transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusDitolak, BookingStatusDibatalkan, BookingStatusSelesai:
		return true
	}
	return false
}

type Booking struct {
	Base
	UserID      uuid.UUID       `db:"user_id"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     time.Time       `db:"end_date"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	Status      BookingStatus   `db:"status"`
	Notes       string          `db:"notes"`
	ApproverID  *uuid.UUID      `db:"approver_id"`
}
