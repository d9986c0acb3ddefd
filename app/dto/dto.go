package dto

// APIResponse represents the standard API response structure
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail represents error details in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}

// LineItemDTO is one labor or part line inside a job card, quotation or
// invoice payload
type LineItemDTO struct {
	Kind        string  `json:"kind" validate:"required,oneof=labor part"`
	Description string  `json:"description" validate:"required,max=500"`
	ItemSKU     *string `json:"item_sku,omitempty" validate:"omitempty,max=64"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Discount    float64 `json:"discount,omitempty" validate:"gte=0"`
}
