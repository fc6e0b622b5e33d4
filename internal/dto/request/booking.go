package request

type BookingItemRequest struct {
	ServiceID string  `json:"service_id" validate:"required,uuid4"`
	PackageID *string `json:"package_id,omitempty" validate:"omitempty,uuid4"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

type CreateBookingRequest struct {
	StartDate string               `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string               `json:"end_date" validate:"required,datetime=2006-01-02"`
	Notes     string               `json:"notes,omitempty" validate:"max=2000"`
	Items     []BookingItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateBookingRequest hanya boleh mengubah tanggal dan catatan; item dan harga
// beku sejak pembuatan.
type UpdateBookingRequest struct {
	StartDate *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ReviewBookingRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}
