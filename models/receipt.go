package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment method constants shared by receipts and supplier payments
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCheque   = "cheque"
)

// Receipt represents money received from a customer against a receivable
// invoice. ReceiptNumber is minted by the sequence allocator ("RN" counter)
// in the same transaction that updates the invoice's paid amount.
// Table: receipts
type Receipt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_receipts_uuid" json:"uuid"`
	WorkshopID    uint      `gorm:"not null;uniqueIndex:uk_receipts_workshop_number;index:idx_receipts_workshop_id" json:"workshop_id"`
	ReceiptNumber string    `gorm:"size:32;not null;uniqueIndex:uk_receipts_workshop_number" json:"receipt_number"`

	InvoiceID  uint     `gorm:"not null;index:idx_receipts_invoice_id" json:"invoice_id"`
	Invoice    *Invoice `gorm:"foreignKey:InvoiceID;references:ID" json:"invoice,omitempty"`
	CustomerID uint     `gorm:"not null;index:idx_receipts_customer_id" json:"customer_id"`

	Amount       float64 `gorm:"type:numeric(14,2);not null" json:"amount"`
	Method       string  `gorm:"size:20;not null;default:'cash'" json:"method"`
	ReferenceNo  *string `gorm:"size:100" json:"reference_no,omitempty"`
	Notes        *string `gorm:"type:text" json:"notes,omitempty"`
	ReceivedByID *uint   `json:"received_by_id,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_receipts_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptFilter represents filter criteria for receipt queries
type ReceiptFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkshopID    *uint
	ReceiptNumber *string
	InvoiceID     *uint
	CustomerID    *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
