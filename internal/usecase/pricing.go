package usecase

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"service-booking/internal/data/entity"
)

// DurationDays menghitung lama sewa secara inklusif: booking satu hari
// (start == end) dihitung 1 hari, bukan 0. Rentang terbalik menghasilkan 0
// dan ditolak saat validasi tanggal.
func DurationDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		return 0
	}

	days := int(math.Ceil(diff.Hours() / 24))
	return days + 1
}

// ItemSubtotal = unitPrice * quantity * durationDays, semua dalam decimal
// supaya tidak ada drift pembulatan float.
func ItemSubtotal(unitPrice decimal.Decimal, quantity, durationDays int) decimal.Decimal {
	return unitPrice.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(int64(durationDays)))
}

// Reprice menghitung ulang subtotal setiap item dari unit price yang sudah
// beku, lalu mengembalikan total booking. Dipakai saat create dan saat
// tanggal booking berubah.
func Reprice(items []*entity.BookingItem, durationDays int) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		item.Subtotal = ItemSubtotal(item.UnitPrice, item.Quantity, durationDays)
		total = total.Add(item.Subtotal)
	}
	return total
}
