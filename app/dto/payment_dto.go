package dto

// RecordPaymentRequest represents the request to record money paid to a
// supplier against a payable invoice
type RecordPaymentRequest struct {
	WorkshopID  uint    `json:"-"`
	UserID      uint    `json:"-"`
	InvoiceUUID string  `json:"invoice_uuid" validate:"required,uuid4"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Method      string  `json:"method" validate:"required,oneof=cash card transfer cheque"`
	ReferenceNo *string `json:"reference_no,omitempty" validate:"omitempty,max=100"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// RecordPaymentResponse represents the response after recording a payment
type RecordPaymentResponse struct {
	UUID          string  `json:"uuid"`
	PaymentNumber string  `json:"payment_number" example:"PVN-00001"`
	Amount        float64 `json:"amount"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceStatus string  `json:"invoice_status"`
	Outstanding   float64 `json:"outstanding"`
	CreatedAt     string  `json:"created_at"`
}

// PaymentDTO represents a supplier payment in listings
type PaymentDTO struct {
	ID            uint    `json:"id"`
	UUID          string  `json:"uuid"`
	PaymentNumber string  `json:"payment_number"`
	InvoiceID     uint    `json:"invoice_id"`
	SupplierID    uint    `json:"supplier_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	ReferenceNo   *string `json:"reference_no,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// ListPaymentsResponse represents payments applied to one invoice
type ListPaymentsResponse struct {
	Items []PaymentDTO `json:"items"`
}
