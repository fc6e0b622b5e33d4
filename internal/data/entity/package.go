package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Package adalah varian harga di bawah satu service.
type Package struct {
	Base
	ServiceID   uuid.UUID       `db:"service_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	UnitRate    decimal.Decimal `db:"unit_rate"`
	IsActive    bool            `db:"is_active"`
}
