package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"service-booking/internal/data/entity"
	"service-booking/pkg/apperr"
	"service-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on payments(booking_id) WHERE status IN ('PENDING','PAID').
const uniqueViolation = "23505"

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error)
	FindActiveByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)
	FindByReferenceNo(ctx context.Context, referenceNo string) (*entity.Payment, error)
	FindByReferencePrefix(ctx context.Context, prefix string) (*entity.Payment, error)

	// MarkPaid menandai payment PAID dan booking DIBAYAR dalam satu transaksi.
	// Mengembalikan false bila payment sudah PAID (redelivery webhook).
	MarkPaid(ctx context.Context, paymentID uuid.UUID, paidAt time.Time) (bool, error)
	// MarkFailed hanya berlaku dari PENDING. Mengembalikan false bila tidak.
	MarkFailed(ctx context.Context, paymentID uuid.UUID) (bool, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, booking_id, amount, method, status, reference_no, paid_at, proof_url, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.ReferenceNo,
		&payment.PaidAt,
		&payment.ProofURL,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, method, status, reference_no, paid_at, proof_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.ReferenceNo,
		payment.PaidAt,
		payment.ProofURL,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		// Constraint aktif-unik adalah titik penegakan sebenarnya untuk
		// "satu payment aktif per booking"; pre-check di usecase bisa balapan.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflictf("booking %s already has an active payment", payment.BookingID.String())
		}

		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
			zap.String("reference_no", payment.ReferenceNo),
		)
		return fmt.Errorf("create payment %s: %w", payment.ReferenceNo, err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find payments by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find payments by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func (r *paymentRepository) FindActiveByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1 AND status IN ('PENDING', 'PAID')
		LIMIT 1
	`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active payment",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find active payment for booking %s: %w", bookingID.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByReferenceNo(ctx context.Context, referenceNo string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE reference_no = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, referenceNo))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by reference",
			zap.Error(err),
			zap.String("reference_no", referenceNo),
		)
		return nil, fmt.Errorf("find payment by reference %s: %w", referenceNo, err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByReferencePrefix(ctx context.Context, prefix string) (*entity.Payment, error) {
	// Fallback longgar untuk order id yang terpotong oleh gateway.
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE reference_no LIKE $1 || '%'
		ORDER BY created_at DESC
		LIMIT 1
	`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, prefix))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by reference prefix",
			zap.Error(err),
			zap.String("prefix", prefix),
		)
		return nil, fmt.Errorf("find payment by reference prefix %s: %w", prefix, err)
	}

	return payment, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, paymentID uuid.UUID, paidAt time.Time) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin mark paid tx", zap.Error(err))
		return false, fmt.Errorf("begin mark paid tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Kunci baris payment supaya webhook yang balapan tidak saling tindih.
	var status entity.PaymentStatus
	var bookingID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT status, booking_id FROM payments WHERE id = $1 FOR UPDATE`,
		paymentID,
	).Scan(&status, &bookingID)
	if err == pgx.ErrNoRows {
		return false, fmt.Errorf("payment %s not found", paymentID.String())
	}
	if err != nil {
		return false, fmt.Errorf("lock payment %s: %w", paymentID.String(), err)
	}

	if status == entity.PaymentStatusPaid {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE payments SET status = $2, paid_at = $3, updated_at = NOW() WHERE id = $1`,
		paymentID, entity.PaymentStatusPaid, paidAt,
	)
	if err != nil {
		return false, fmt.Errorf("mark payment %s paid: %w", paymentID.String(), err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`,
		bookingID, entity.BookingStatusDibayar,
	)
	if err != nil {
		return false, fmt.Errorf("mark booking %s paid: %w", bookingID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit mark paid %s: %w", paymentID.String(), err)
	}

	return true, nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, paymentID uuid.UUID) (bool, error) {
	// Compare-and-swap: hanya PENDING yang boleh jadi FAILED.
	result, err := r.db.Exec(ctx,
		`UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`,
		paymentID, entity.PaymentStatusFailed, entity.PaymentStatusPending,
	)
	if err != nil {
		r.log.Error("Failed to mark payment failed",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
		)
		return false, fmt.Errorf("mark payment %s failed: %w", paymentID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
