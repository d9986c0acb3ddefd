package dto

import (
	"time"
)

// CreateEmployeeRequest represents the request to register an HR record
type CreateEmployeeRequest struct {
	WorkshopID uint       `json:"-"`
	FirstName  string     `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string     `json:"last_name" validate:"required,min=1,max=100"`
	Position   string     `json:"position" validate:"required,max=100"`
	Mobile     *string    `json:"mobile,omitempty" validate:"omitempty,max=20"`
	Email      *string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Salary     *float64   `json:"salary,omitempty" validate:"omitempty,gte=0"`
	HiredAt    *time.Time `json:"hired_at,omitempty"`
}

// CreateEmployeeResponse represents the response after registering
type CreateEmployeeResponse struct {
	UUID        string `json:"uuid"`
	StaffNumber string `json:"staff_number" example:"EMP-00001"`
	CreatedAt   string `json:"created_at"`
}

// UpdateEmployeeRequest represents the request to update an HR record
type UpdateEmployeeRequest struct {
	UUID       string     `json:"-"`
	WorkshopID uint       `json:"-"`
	Position   *string    `json:"position,omitempty" validate:"omitempty,max=100"`
	Mobile     *string    `json:"mobile,omitempty" validate:"omitempty,max=20"`
	Email      *string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Salary     *float64   `json:"salary,omitempty" validate:"omitempty,gte=0"`
	LeftAt     *time.Time `json:"left_at,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}

// EmployeeDTO represents an employee in responses
type EmployeeDTO struct {
	ID          uint       `json:"id"`
	UUID        string     `json:"uuid"`
	StaffNumber string     `json:"staff_number"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Position    string     `json:"position"`
	Mobile      *string    `json:"mobile,omitempty"`
	Email       *string    `json:"email,omitempty"`
	Salary      *float64   `json:"salary,omitempty"`
	HiredAt     *time.Time `json:"hired_at,omitempty"`
	LeftAt      *time.Time `json:"left_at,omitempty"`
	IsActive    *bool      `json:"is_active"`
	CreatedAt   string     `json:"created_at"`
}

// ListEmployeesResponse represents the paginated employee list
type ListEmployeesResponse struct {
	Items []EmployeeDTO `json:"items"`
	Total int64         `json:"total"`
}
