package dto

// CreateSupplierRequest represents the request to register a supplier
type CreateSupplierRequest struct {
	WorkshopID    uint    `json:"-"`
	Name          string  `json:"name" validate:"required,max=255"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	TaxNumber     *string `json:"tax_number,omitempty" validate:"omitempty,max=50"`
}

// UpdateSupplierRequest represents the request to update a supplier
type UpdateSupplierRequest struct {
	UUID          string  `json:"-"`
	WorkshopID    uint    `json:"-"`
	Name          *string `json:"name,omitempty" validate:"omitempty,max=255"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	TaxNumber     *string `json:"tax_number,omitempty" validate:"omitempty,max=50"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// SupplierDTO represents a supplier in responses
type SupplierDTO struct {
	ID            uint    `json:"id"`
	UUID          string  `json:"uuid"`
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	TaxNumber     *string `json:"tax_number,omitempty"`
	IsActive      *bool   `json:"is_active"`
	CreatedAt     string  `json:"created_at"`
}

// ListSuppliersResponse represents the paginated supplier list
type ListSuppliersResponse struct {
	Items []SupplierDTO `json:"items"`
	Total int64         `json:"total"`
}
