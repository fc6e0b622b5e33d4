package adaptor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"service-booking/internal/dto/request"
	"service-booking/internal/usecase"
	"service-booking/pkg/utils"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetCategories handles GET /api/categories (public)
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context())
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// GetServices handles GET /api/services (public)
func (h *CatalogHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	// Listing publik hanya service aktif; admin bisa minta semua
	includeInactive := r.URL.Query().Get("include_inactive") == "true" && isAdminRequest(r)

	services, err := h.service.GetServices(r.Context(), includeInactive)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// GetServiceByID handles GET /api/services/{id} (public)
func (h *CatalogHandler) GetServiceByID(w http.ResponseWriter, r *http.Request) {
	service, err := h.service.GetServiceByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", service)
}

// CreateCategory handles POST /api/admin/categories (admin)
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseCreated(w, "Category created", category)
}

// UpdateCategory handles PUT /api/admin/categories/{id} (admin)
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Category updated", category)
}

// DeleteCategory handles DELETE /api/admin/categories/{id} (admin)
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Category deleted", nil)
}

// CreateService handles POST /api/admin/services (admin)
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req request.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	service, err := h.service.CreateService(r.Context(), &req)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseCreated(w, "Service created", service)
}

// UpdateService handles PUT /api/admin/services/{id} (admin)
func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req request.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	service, err := h.service.UpdateService(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Service updated", service)
}

// CreatePackage handles POST /api/admin/services/{id}/packages (admin)
func (h *CatalogHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req request.PackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	pkg, err := h.service.CreatePackage(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseCreated(w, "Package created", pkg)
}

// UpdatePackage handles PUT /api/admin/packages/{id} (admin)
func (h *CatalogHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	var req request.PackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	pkg, err := h.service.UpdatePackage(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Package updated", pkg)
}
