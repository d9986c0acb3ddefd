package dto

// CounterDTO represents one reference number counter in responses
type CounterDTO struct {
	ID          uint   `json:"id"`
	Code        string `json:"code" example:"JCN"`
	Description string `json:"description" example:"JCN Number"`
	Prefix      string `json:"prefix" example:"JCN"`
	Separator   string `json:"separator" example:"-"`
	Value       int64  `json:"value" example:"42"`
	Length      int    `json:"length" example:"5"`
	Status      *bool  `json:"status"`
	NextNumber  string `json:"next_number" example:"JCN-00043"`
}

// ListCountersResponse represents a workshop's counters
type ListCountersResponse struct {
	Items []CounterDTO `json:"items"`
}

// UpdateCounterRequest represents the request to change a counter's
// formatting settings. The running value itself is never edited.
type UpdateCounterRequest struct {
	WorkshopID  uint    `json:"-"`
	Code        string  `json:"-"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Prefix      *string `json:"prefix,omitempty" validate:"omitempty,max=16"`
	Separator   *string `json:"separator,omitempty" validate:"omitempty,max=4"`
	Length      *int    `json:"length,omitempty" validate:"omitempty,min=1,max=12"`
	Status      *bool   `json:"status,omitempty"`
}

// AllocateCounterRequest represents the request to mint the next reference
// number for an arbitrary counter code
type AllocateCounterRequest struct {
	WorkshopID  uint    `json:"-"`
	Code        string  `json:"code" validate:"required,max=16"`
	Prefix      *string `json:"prefix,omitempty" validate:"omitempty,max=16"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
}

// AllocateCounterResponse represents the minted reference number
type AllocateCounterResponse struct {
	Code      string `json:"code" example:"JCN"`
	Value     int64  `json:"value" example:"43"`
	Reference string `json:"reference" example:"JCN-00043"`
}
