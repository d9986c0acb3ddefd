package dto

import (
	"time"
)

// CreateJobCardRequest represents the request to open a job card
type CreateJobCardRequest struct {
	WorkshopID   uint          `json:"-"`
	UserID       uint          `json:"-"`
	CustomerUUID string        `json:"customer_uuid" validate:"required,uuid4"`
	VehicleUUID  string        `json:"vehicle_uuid" validate:"required,uuid4"`
	Complaint    string        `json:"complaint" validate:"required,max=2000"`
	OdometerIn   *int64        `json:"odometer_in,omitempty" validate:"omitempty,min=0"`
	Lines        []LineItemDTO `json:"lines,omitempty" validate:"omitempty,dive"`
	PromisedAt   *time.Time    `json:"promised_at,omitempty"`
}

// CreateJobCardResponse represents the response after opening a job card
type CreateJobCardResponse struct {
	UUID      string `json:"uuid"`
	JobNumber string `json:"job_number" example:"JCN-00001"`
	Status    string `json:"status" example:"open"`
	CreatedAt string `json:"created_at"`
}

// UpdateJobCardRequest represents the request to edit an open job card
type UpdateJobCardRequest struct {
	UUID       string        `json:"-"`
	WorkshopID uint          `json:"-"`
	Diagnosis  *string       `json:"diagnosis,omitempty" validate:"omitempty,max=2000"`
	Lines      []LineItemDTO `json:"lines,omitempty" validate:"omitempty,dive"`
	AssignedTo *uint         `json:"assigned_to,omitempty"`
	PromisedAt *time.Time    `json:"promised_at,omitempty"`
}

// ChangeJobCardStatusRequest represents the request to move a job card
// through its lifecycle
type ChangeJobCardStatusRequest struct {
	UUID       string `json:"-"`
	WorkshopID uint   `json:"-"`
	UserID     uint   `json:"-"`
	Status     string `json:"status" validate:"required,oneof=open in-progress completed invoiced closed cancelled"`
}

// JobCardDTO represents a job card in responses
type JobCardDTO struct {
	ID          uint          `json:"id"`
	UUID        string        `json:"uuid"`
	JobNumber   string        `json:"job_number"`
	CustomerID  uint          `json:"customer_id"`
	VehicleID   uint          `json:"vehicle_id"`
	Complaint   string        `json:"complaint"`
	Diagnosis   *string       `json:"diagnosis,omitempty"`
	OdometerIn  *int64        `json:"odometer_in,omitempty"`
	Lines       []LineItemDTO `json:"lines"`
	Status      string        `json:"status"`
	AssignedTo  *uint         `json:"assigned_to,omitempty"`
	QuotationID *uint         `json:"quotation_id,omitempty"`
	PromisedAt  *time.Time    `json:"promised_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CreatedAt   string        `json:"created_at"`
}

// ListJobCardsRequest represents the request to list a workshop's job cards
type ListJobCardsRequest struct {
	WorkshopID uint    `json:"-"`
	Status     *string `json:"-" validate:"omitempty,oneof=open in-progress completed invoiced closed cancelled"`
	Page       int     `json:"-" validate:"omitempty,min=1"`
	PageSize   int     `json:"-" validate:"omitempty,min=1,max=100"`
}

// ListJobCardsResponse represents the paginated job card list
type ListJobCardsResponse struct {
	Items []JobCardDTO `json:"items"`
	Total int64        `json:"total"`
}
