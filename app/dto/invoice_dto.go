package dto

import (
	"time"
)

// IssueInvoiceRequest represents the request to issue a receivable invoice
// from a completed job card
type IssueInvoiceRequest struct {
	WorkshopID   uint       `json:"-"`
	UserID       uint       `json:"-"`
	JobCardUUID  string     `json:"job_card_uuid" validate:"required,uuid4"`
	CurrencyCode *string    `json:"currency_code,omitempty" validate:"omitempty,len=3"`
	Discount     float64    `json:"discount,omitempty" validate:"gte=0"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// RecordPayableInvoiceRequest represents the request to record a supplier
// invoice
type RecordPayableInvoiceRequest struct {
	WorkshopID   uint          `json:"-"`
	UserID       uint          `json:"-"`
	SupplierUUID string        `json:"supplier_uuid" validate:"required,uuid4"`
	Lines        []LineItemDTO `json:"lines" validate:"required,min=1,dive"`
	CurrencyCode *string       `json:"currency_code,omitempty" validate:"omitempty,len=3"`
	Discount     float64       `json:"discount,omitempty" validate:"gte=0"`
	DueDate      *time.Time    `json:"due_date,omitempty"`
}

// InvoiceResponse represents the response after creating an invoice
type InvoiceResponse struct {
	UUID          string  `json:"uuid"`
	InvoiceNumber string  `json:"invoice_number" example:"INV-00001"`
	Kind          string  `json:"kind"`
	Subtotal      float64 `json:"subtotal"`
	TaxAmount     float64 `json:"tax_amount"`
	Discount      float64 `json:"discount"`
	GrandTotal    float64 `json:"grand_total"`
	CurrencyCode  string  `json:"currency_code"`
	ExchangeRate  float64 `json:"exchange_rate"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

// InvoiceDTO represents an invoice in listings and lookups
type InvoiceDTO struct {
	ID            uint          `json:"id"`
	UUID          string        `json:"uuid"`
	InvoiceNumber string        `json:"invoice_number"`
	Kind          string        `json:"kind"`
	CustomerID    *uint         `json:"customer_id,omitempty"`
	SupplierID    *uint         `json:"supplier_id,omitempty"`
	JobCardID     *uint         `json:"job_card_id,omitempty"`
	Lines         []LineItemDTO `json:"lines"`
	Subtotal      float64       `json:"subtotal"`
	TaxAmount     float64       `json:"tax_amount"`
	Discount      float64       `json:"discount"`
	GrandTotal    float64       `json:"grand_total"`
	AmountPaid    float64       `json:"amount_paid"`
	Outstanding   float64       `json:"outstanding"`
	CurrencyCode  string        `json:"currency_code"`
	ExchangeRate  float64       `json:"exchange_rate"`
	Status        string        `json:"status"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	CreatedAt     string        `json:"created_at"`
}

// VoidInvoiceRequest represents the request to void an invoice
type VoidInvoiceRequest struct {
	UUID       string `json:"-"`
	WorkshopID uint   `json:"-"`
	UserID     uint   `json:"-"`
}

// ListInvoicesRequest represents the request to list invoices
type ListInvoicesRequest struct {
	WorkshopID uint    `json:"-"`
	Kind       *string `json:"-" validate:"omitempty,oneof=receivable payable"`
	Page       int     `json:"-" validate:"omitempty,min=1"`
	PageSize   int     `json:"-" validate:"omitempty,min=1,max=100"`
}

// ListInvoicesResponse represents the paginated invoice list
type ListInvoicesResponse struct {
	Items []InvoiceDTO `json:"items"`
	Total int64        `json:"total"`
}
