package response

import (
	"time"

	"service-booking/internal/data/entity"
)

type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ServiceResponse struct {
	ID          string            `json:"id"`
	CategoryID  string            `json:"category_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	UnitRate    string            `json:"unit_rate"`
	IsActive    bool              `json:"is_active"`
	Packages    []PackageResponse `json:"packages,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type PackageResponse struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"service_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UnitRate    string    `json:"unit_rate"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Helper converters
func CategoryToResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

func ServiceToResponse(service *entity.Service, packages []*entity.Package) ServiceResponse {
	resp := ServiceResponse{
		ID:          service.ID.String(),
		CategoryID:  service.CategoryID.String(),
		Name:        service.Name,
		Description: service.Description,
		UnitRate:    service.UnitRate.String(),
		IsActive:    service.IsActive,
		CreatedAt:   service.CreatedAt,
	}

	for _, pkg := range packages {
		resp.Packages = append(resp.Packages, PackageToResponse(pkg))
	}

	return resp
}

func PackageToResponse(pkg *entity.Package) PackageResponse {
	return PackageResponse{
		ID:          pkg.ID.String(),
		ServiceID:   pkg.ServiceID.String(),
		Name:        pkg.Name,
		Description: pkg.Description,
		UnitRate:    pkg.UnitRate.String(),
		IsActive:    pkg.IsActive,
		CreatedAt:   pkg.CreatedAt,
	}
}
