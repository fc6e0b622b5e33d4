package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingItem adalah satu baris layanan/paket dalam booking. UnitPrice dibekukan
// saat pembuatan; perubahan tarif layanan setelahnya tidak mempengaruhi booking.
type BookingItem struct {
	BaseSimple
	BookingID uuid.UUID       `db:"booking_id"`
	ServiceID uuid.UUID       `db:"service_id"`
	PackageID *uuid.UUID      `db:"package_id"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Subtotal  decimal.Decimal `db:"subtotal"`
}
