package dto

// CreateCurrencyRequest represents the request to add a currency
type CreateCurrencyRequest struct {
	WorkshopID   uint    `json:"-"`
	Code         string  `json:"code" validate:"required,len=3,uppercase"`
	Name         string  `json:"name" validate:"required,max=100"`
	Symbol       *string `json:"symbol,omitempty" validate:"omitempty,max=8"`
	ExchangeRate float64 `json:"exchange_rate" validate:"required,gt=0"`
}

// UpdateCurrencyRequest represents the request to update a currency's rate
// or status. Existing invoices keep the rate they snapshotted.
type UpdateCurrencyRequest struct {
	WorkshopID   uint     `json:"-"`
	Code         string   `json:"-"`
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	Symbol       *string  `json:"symbol,omitempty" validate:"omitempty,max=8"`
	ExchangeRate *float64 `json:"exchange_rate,omitempty" validate:"omitempty,gt=0"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// CurrencyDTO represents a currency in responses
type CurrencyDTO struct {
	ID           uint    `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Symbol       *string `json:"symbol,omitempty"`
	ExchangeRate float64 `json:"exchange_rate"`
	IsBase       *bool   `json:"is_base"`
	IsActive     *bool   `json:"is_active"`
}

// ListCurrenciesResponse represents a workshop's configured currencies
type ListCurrenciesResponse struct {
	Items []CurrencyDTO `json:"items"`
}
