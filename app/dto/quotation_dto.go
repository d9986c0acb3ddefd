package dto

import (
	"time"
)

// CreateQuotationRequest represents the request to draft a quotation
type CreateQuotationRequest struct {
	WorkshopID   uint          `json:"-"`
	UserID       uint          `json:"-"`
	CustomerUUID string        `json:"customer_uuid" validate:"required,uuid4"`
	VehicleUUID  *string       `json:"vehicle_uuid,omitempty" validate:"omitempty,uuid4"`
	Lines        []LineItemDTO `json:"lines" validate:"required,min=1,dive"`
	ValidUntil   *time.Time    `json:"valid_until,omitempty"`
	Notes        *string       `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// CreateQuotationResponse represents the response after drafting a quotation
type CreateQuotationResponse struct {
	UUID        string `json:"uuid"`
	QuoteNumber string `json:"quote_number" example:"QN-00001"`
	Status      string `json:"status" example:"draft"`
	CreatedAt   string `json:"created_at"`
}

// ChangeQuotationStatusRequest represents the request to move a quotation
// through its lifecycle (send, accept, reject)
type ChangeQuotationStatusRequest struct {
	UUID       string `json:"-"`
	WorkshopID uint   `json:"-"`
	Status     string `json:"status" validate:"required,oneof=sent accepted rejected expired"`
}

// ConvertQuotationRequest represents the request to turn an accepted
// quotation into a job card
type ConvertQuotationRequest struct {
	UUID       string `json:"-"`
	WorkshopID uint   `json:"-"`
	UserID     uint   `json:"-"`
	Complaint  string `json:"complaint" validate:"required,max=2000"`
	OdometerIn *int64 `json:"odometer_in,omitempty" validate:"omitempty,min=0"`
}

// ConvertQuotationResponse represents the response after conversion
type ConvertQuotationResponse struct {
	JobCardUUID string `json:"job_card_uuid"`
	JobNumber   string `json:"job_number" example:"JCN-00002"`
	QuoteNumber string `json:"quote_number"`
	CreatedAt   string `json:"created_at"`
}

// QuotationDTO represents a quotation in responses
type QuotationDTO struct {
	ID          uint          `json:"id"`
	UUID        string        `json:"uuid"`
	QuoteNumber string        `json:"quote_number"`
	CustomerID  uint          `json:"customer_id"`
	VehicleID   *uint         `json:"vehicle_id,omitempty"`
	Lines       []LineItemDTO `json:"lines"`
	Subtotal    float64       `json:"subtotal"`
	Status      string        `json:"status"`
	ValidUntil  *time.Time    `json:"valid_until,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
	CreatedAt   string        `json:"created_at"`
}

// ListQuotationsRequest represents the request to list quotations
type ListQuotationsRequest struct {
	WorkshopID uint `json:"-"`
	Page       int  `json:"-" validate:"omitempty,min=1"`
	PageSize   int  `json:"-" validate:"omitempty,min=1,max=100"`
}

// ListQuotationsResponse represents the paginated quotation list
type ListQuotationsResponse struct {
	Items []QuotationDTO `json:"items"`
	Total int64          `json:"total"`
}
