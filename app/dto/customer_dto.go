package dto

// CreateCustomerRequest represents the request to register a customer
type CreateCustomerRequest struct {
	WorkshopID  uint    `json:"-"`
	FirstName   string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string  `json:"last_name" validate:"required,min=1,max=100"`
	CompanyName *string `json:"company_name,omitempty" validate:"omitempty,max=255"`
	Mobile      string  `json:"mobile" validate:"required,max=20"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	TaxNumber   *string `json:"tax_number,omitempty" validate:"omitempty,max=50"`
}

// UpdateCustomerRequest represents the request to update a customer
type UpdateCustomerRequest struct {
	UUID        string  `json:"-"`
	WorkshopID  uint    `json:"-"`
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	CompanyName *string `json:"company_name,omitempty" validate:"omitempty,max=255"`
	Mobile      *string `json:"mobile,omitempty" validate:"omitempty,max=20"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	TaxNumber   *string `json:"tax_number,omitempty" validate:"omitempty,max=50"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CustomerDTO represents a customer in responses
type CustomerDTO struct {
	ID          uint    `json:"id"`
	UUID        string  `json:"uuid"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	CompanyName *string `json:"company_name,omitempty"`
	Mobile      string  `json:"mobile"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	TaxNumber   *string `json:"tax_number,omitempty"`
	IsActive    *bool   `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
}

// ListCustomersRequest represents the request to list a workshop's customers
type ListCustomersRequest struct {
	WorkshopID uint `json:"-"`
	Page       int  `json:"-" validate:"omitempty,min=1"`
	PageSize   int  `json:"-" validate:"omitempty,min=1,max=100"`
}

// ListCustomersResponse represents the paginated customer list
type ListCustomersResponse struct {
	Items []CustomerDTO `json:"items"`
	Total int64         `json:"total"`
}
