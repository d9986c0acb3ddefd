package dto

// RecordReceiptRequest represents the request to record money received
// against a receivable invoice
type RecordReceiptRequest struct {
	WorkshopID  uint    `json:"-"`
	UserID      uint    `json:"-"`
	InvoiceUUID string  `json:"invoice_uuid" validate:"required,uuid4"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Method      string  `json:"method" validate:"required,oneof=cash card transfer cheque"`
	ReferenceNo *string `json:"reference_no,omitempty" validate:"omitempty,max=100"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// RecordReceiptResponse represents the response after recording a receipt
type RecordReceiptResponse struct {
	UUID          string  `json:"uuid"`
	ReceiptNumber string  `json:"receipt_number" example:"RN-00001"`
	Amount        float64 `json:"amount"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceStatus string  `json:"invoice_status"`
	Outstanding   float64 `json:"outstanding"`
	CreatedAt     string  `json:"created_at"`
}

// ReceiptDTO represents a receipt in listings
type ReceiptDTO struct {
	ID            uint    `json:"id"`
	UUID          string  `json:"uuid"`
	ReceiptNumber string  `json:"receipt_number"`
	InvoiceID     uint    `json:"invoice_id"`
	CustomerID    uint    `json:"customer_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	ReferenceNo   *string `json:"reference_no,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// ListReceiptsResponse represents receipts applied to one invoice
type ListReceiptsResponse struct {
	Items []ReceiptDTO `json:"items"`
}
