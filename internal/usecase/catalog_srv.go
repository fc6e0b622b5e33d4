package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"service-booking/internal/data/entity"
	"service-booking/internal/data/repository"
	"service-booking/internal/dto/request"
	"service-booking/internal/dto/response"
	"service-booking/pkg/apperr"
	"service-booking/pkg/utils"
)

// CatalogService mengelola kategori, layanan, dan paket yang bisa dibooking.
type CatalogService interface {
	GetCategories(ctx context.Context) ([]response.CategoryResponse, error)
	GetServices(ctx context.Context, includeInactive bool) ([]response.ServiceResponse, error)
	GetServiceByID(ctx context.Context, serviceID string) (*response.ServiceResponse, error)

	// Admin
	CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error)
	UpdateCategory(ctx context.Context, categoryID string, req *request.CategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	CreateService(ctx context.Context, req *request.ServiceRequest) (*response.ServiceResponse, error)
	UpdateService(ctx context.Context, serviceID string, req *request.ServiceRequest) (*response.ServiceResponse, error)
	CreatePackage(ctx context.Context, serviceID string, req *request.PackageRequest) (*response.PackageResponse, error)
	UpdatePackage(ctx context.Context, packageID string, req *request.PackageRequest) (*response.PackageResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) GetCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	result := make([]response.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, response.CategoryToResponse(category))
	}
	return result, nil
}

func (s *catalogService) GetServices(ctx context.Context, includeInactive bool) ([]response.ServiceResponse, error) {
	services, err := s.repo.Service.FindAll(ctx, !includeInactive)
	if err != nil {
		s.log.Error("Failed to list services", zap.Error(err))
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	result := make([]response.ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, response.ServiceToResponse(svc, nil))
	}
	return result, nil
}

func (s *catalogService) GetServiceByID(ctx context.Context, serviceID string) (*response.ServiceResponse, error) {
	id, err := utils.ParseUUID(serviceID)
	if err != nil {
		return nil, apperr.Validationf("invalid service id")
	}

	svc, err := s.repo.Service.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find service", zap.Error(err), zap.String("service_id", serviceID))
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	if svc == nil {
		return nil, apperr.NotFoundf("service not found")
	}

	packages, err := s.repo.Package.FindByServiceID(ctx, id)
	if err != nil {
		s.log.Error("Failed to list packages", zap.Error(err), zap.String("service_id", serviceID))
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}

	resp := response.ServiceToResponse(svc, packages)
	return &resp, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	category := &entity.Category{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Category.Create(ctx, category); err != nil {
		s.log.Error("Failed to create category", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.log.Info("Category created", zap.String("category_id", category.ID.String()))
	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, categoryID string, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := utils.ParseUUID(categoryID)
	if err != nil {
		return nil, apperr.Validationf("invalid category id")
	}

	category, err := s.repo.Category.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return nil, apperr.NotFoundf("category not found")
	}

	category.Name = req.Name
	category.Description = req.Description
	category.UpdatedAt = time.Now()

	if err := s.repo.Category.Update(ctx, category); err != nil {
		s.log.Error("Failed to update category", zap.Error(err), zap.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, categoryID string) error {
	id, err := utils.ParseUUID(categoryID)
	if err != nil {
		return apperr.Validationf("invalid category id")
	}

	if err := s.repo.Category.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete category", zap.Error(err), zap.String("category_id", categoryID))
		return err
	}

	s.log.Info("Category deleted", zap.String("category_id", categoryID))
	return nil
}

func (s *catalogService) CreateService(ctx context.Context, req *request.ServiceRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	categoryID, err := utils.ParseUUID(req.CategoryID)
	if err != nil {
		return nil, apperr.Validationf("invalid category id")
	}

	category, err := s.repo.Category.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return nil, apperr.NotFoundf("category not found")
	}

	unitRate, err := parseUnitRate(req.UnitRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	svc := &entity.Service{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		UnitRate:    unitRate,
		IsActive:    true,
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.repo.Service.Create(ctx, svc); err != nil {
		s.log.Error("Failed to create service", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.log.Info("Service created",
		zap.String("service_id", svc.ID.String()),
		zap.String("unit_rate", unitRate.String()))

	resp := response.ServiceToResponse(svc, nil)
	return &resp, nil
}

func (s *catalogService) UpdateService(ctx context.Context, serviceID string, req *request.ServiceRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := utils.ParseUUID(serviceID)
	if err != nil {
		return nil, apperr.Validationf("invalid service id")
	}

	svc, err := s.repo.Service.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	if svc == nil {
		return nil, apperr.NotFoundf("service not found")
	}

	unitRate, err := parseUnitRate(req.UnitRate)
	if err != nil {
		return nil, err
	}

	// Perubahan tarif hanya berlaku untuk booking baru; unit price booking
	// lama sudah beku di booking_items.
	svc.Name = req.Name
	svc.Description = req.Description
	svc.UnitRate = unitRate
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	svc.UpdatedAt = time.Now()

	if err := s.repo.Service.Update(ctx, svc); err != nil {
		s.log.Error("Failed to update service", zap.Error(err), zap.String("service_id", serviceID))
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	resp := response.ServiceToResponse(svc, nil)
	return &resp, nil
}

func (s *catalogService) CreatePackage(ctx context.Context, serviceID string, req *request.PackageRequest) (*response.PackageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	svcID, err := utils.ParseUUID(serviceID)
	if err != nil {
		return nil, apperr.Validationf("invalid service id")
	}

	svc, err := s.repo.Service.FindByID(ctx, svcID)
	if err != nil {
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	if svc == nil {
		return nil, apperr.NotFoundf("service not found")
	}

	unitRate, err := parseUnitRate(req.UnitRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	pkg := &entity.Package{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ServiceID:   svcID,
		Name:        req.Name,
		Description: req.Description,
		UnitRate:    unitRate,
		IsActive:    true,
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := s.repo.Package.Create(ctx, pkg); err != nil {
		s.log.Error("Failed to create package", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	s.log.Info("Package created", zap.String("package_id", pkg.ID.String()))
	resp := response.PackageToResponse(pkg)
	return &resp, nil
}

func (s *catalogService) UpdatePackage(ctx context.Context, packageID string, req *request.PackageRequest) (*response.PackageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := utils.ParseUUID(packageID)
	if err != nil {
		return nil, apperr.Validationf("invalid package id")
	}

	pkg, err := s.repo.Package.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find package: %w", err)
	}
	if pkg == nil {
		return nil, apperr.NotFoundf("package not found")
	}

	unitRate, err := parseUnitRate(req.UnitRate)
	if err != nil {
		return nil, err
	}

	pkg.Name = req.Name
	pkg.Description = req.Description
	pkg.UnitRate = unitRate
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}
	pkg.UpdatedAt = time.Now()

	if err := s.repo.Package.Update(ctx, pkg); err != nil {
		s.log.Error("Failed to update package", zap.Error(err), zap.String("package_id", packageID))
		return nil, fmt.Errorf("failed to update package: %w", err)
	}

	resp := response.PackageToResponse(pkg)
	return &resp, nil
}

func parseUnitRate(raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Validationf("invalid unit rate")
	}
	if !rate.IsPositive() {
		return decimal.Zero, apperr.Validationf("unit rate must be positive")
	}
	return rate, nil
}
