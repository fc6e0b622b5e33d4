package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service adalah layanan yang bisa dibooking per hari.
type Service struct {
	Base
	CategoryID  uuid.UUID       `db:"category_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	UnitRate    decimal.Decimal `db:"unit_rate"`
	IsActive    bool            `db:"is_active"`
}
