package request

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
}

type ServiceRequest struct {
	CategoryID  string `json:"category_id" validate:"required,uuid4"`
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	UnitRate    string `json:"unit_rate" validate:"required"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type PackageRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	UnitRate    string `json:"unit_rate" validate:"required"`
	IsActive    *bool  `json:"is_active,omitempty"`
}
