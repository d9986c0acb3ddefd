package dto

// CreateVehicleRequest represents the request to register a vehicle
type CreateVehicleRequest struct {
	WorkshopID   uint    `json:"-"`
	CustomerUUID string  `json:"customer_uuid" validate:"required,uuid4"`
	PlateNumber  string  `json:"plate_number" validate:"required,max=20"`
	VIN          *string `json:"vin,omitempty" validate:"omitempty,len=17"`
	Make         string  `json:"make" validate:"required,max=100"`
	Model        string  `json:"model" validate:"required,max=100"`
	Year         *int    `json:"year,omitempty" validate:"omitempty,min=1900,max=2100"`
	Color        *string `json:"color,omitempty" validate:"omitempty,max=50"`
	Odometer     *int64  `json:"odometer,omitempty" validate:"omitempty,min=0"`
}

// UpdateVehicleRequest represents the request to update a vehicle
type UpdateVehicleRequest struct {
	UUID       string  `json:"-"`
	WorkshopID uint    `json:"-"`
	VIN        *string `json:"vin,omitempty" validate:"omitempty,len=17"`
	Color      *string `json:"color,omitempty" validate:"omitempty,max=50"`
	Odometer   *int64  `json:"odometer,omitempty" validate:"omitempty,min=0"`
}

// VehicleDTO represents a vehicle in responses
type VehicleDTO struct {
	ID          uint    `json:"id"`
	UUID        string  `json:"uuid"`
	CustomerID  uint    `json:"customer_id"`
	PlateNumber string  `json:"plate_number"`
	VIN         *string `json:"vin,omitempty"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        *int    `json:"year,omitempty"`
	Color       *string `json:"color,omitempty"`
	Odometer    *int64  `json:"odometer,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// ListVehiclesResponse represents a customer's vehicles
type ListVehiclesResponse struct {
	Items []VehicleDTO `json:"items"`
}
