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

type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.Package) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error)
	FindByServiceID(ctx context.Context, serviceID uuid.UUID) ([]*entity.Package, error)
	Update(ctx context.Context, pkg *entity.Package) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type packageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPackageRepository(db database.PgxIface, log *zap.Logger) PackageRepository {
	return &packageRepository{
		db:  db,
		log: log.With(zap.String("repository", "package")),
	}
}

const packageColumns = `id, service_id, name, description, unit_rate, is_active, created_at, updated_at`

func scanPackage(row pgx.Row) (*entity.Package, error) {
	var pkg entity.Package
	err := row.Scan(
		&pkg.ID,
		&pkg.ServiceID,
		&pkg.Name,
		&pkg.Description,
		&pkg.UnitRate,
		&pkg.IsActive,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepository) Create(ctx context.Context, pkg *entity.Package) error {
	query := `
		INSERT INTO packages (id, service_id, name, description, unit_rate, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		pkg.ID,
		pkg.ServiceID,
		pkg.Name,
		pkg.Description,
		pkg.UnitRate,
		pkg.IsActive,
		pkg.CreatedAt,
		pkg.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create package",
			zap.Error(err),
			zap.String("name", pkg.Name),
			zap.String("service_id", pkg.ServiceID.String()),
		)
		return fmt.Errorf("create package %s: %w", pkg.Name, err)
	}

	return nil
}

func (r *packageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1 AND deleted_at IS NULL`

	pkg, err := scanPackage(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find package by ID",
			zap.Error(err),
			zap.String("package_id", id.String()),
		)
		return nil, fmt.Errorf("find package by ID %s: %w", id.String(), err)
	}

	return pkg, nil
}

func (r *packageRepository) FindByServiceID(ctx context.Context, serviceID uuid.UUID) ([]*entity.Package, error) {
	query := `
		SELECT ` + packageColumns + `
		FROM packages
		WHERE service_id = $1 AND deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		r.log.Error("Failed to find packages by service ID",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return nil, fmt.Errorf("find packages by service ID %s: %w", serviceID.String(), err)
	}
	defer rows.Close()

	var packages []*entity.Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			r.log.Error("Failed to scan package row", zap.Error(err))
			return nil, fmt.Errorf("scan package row: %w", err)
		}
		packages = append(packages, pkg)
	}

	return packages, rows.Err()
}

func (r *packageRepository) Update(ctx context.Context, pkg *entity.Package) error {
	query := `
		UPDATE packages
		SET name = $2, description = $3, unit_rate = $4, is_active = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		pkg.ID,
		pkg.Name,
		pkg.Description,
		pkg.UnitRate,
		pkg.IsActive,
		pkg.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update package",
			zap.Error(err),
			zap.String("package_id", pkg.ID.String()),
		)
		return fmt.Errorf("update package %s: %w", pkg.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("package %s not found", pkg.ID.String())
	}

	return nil
}

func (r *packageRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE packages SET is_active = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		r.log.Error("Failed to set package active flag",
			zap.Error(err),
			zap.String("package_id", id.String()),
		)
		return fmt.Errorf("set package %s active: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("package %s not found", id.String())
	}

	return nil
}
