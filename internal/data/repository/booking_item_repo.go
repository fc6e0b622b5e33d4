package repository

import (
	"context"
	"fmt"

	"service-booking/internal/data/entity"
	"service-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingItemRepository interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error)
}

type bookingItemRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingItemRepository(db database.PgxIface, log *zap.Logger) BookingItemRepository {
	return &bookingItemRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_item")),
	}
}

func (r *bookingItemRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error) {
	query := `
		SELECT id, booking_id, service_id, package_id, quantity, unit_price, subtotal, created_at
		FROM booking_items
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking items",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find booking items for %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var items []*entity.BookingItem
	for rows.Next() {
		var item entity.BookingItem
		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.ServiceID,
			&item.PackageID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking item row", zap.Error(err))
			return nil, fmt.Errorf("scan booking item row: %w", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

// insertBookingItems dipakai di dalam transaksi pembuatan booking.
func insertBookingItems(ctx context.Context, tx pgx.Tx, items []*entity.BookingItem) error {
	query := `
		INSERT INTO booking_items (id, booking_id, service_id, package_id, quantity, unit_price, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, item := range items {
		_, err := tx.Exec(ctx, query,
			item.ID,
			item.BookingID,
			item.ServiceID,
			item.PackageID,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
			item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert booking item %s: %w", item.ID.String(), err)
		}
	}

	return nil
}
