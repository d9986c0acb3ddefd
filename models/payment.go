package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment represents money paid to a supplier against a payable invoice.
// PaymentNumber is minted by the sequence allocator ("PVN" counter) in the
// same transaction that updates the invoice's paid amount.
// Table: payments
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_payments_uuid" json:"uuid"`
	WorkshopID    uint      `gorm:"not null;uniqueIndex:uk_payments_workshop_number;index:idx_payments_workshop_id" json:"workshop_id"`
	PaymentNumber string    `gorm:"size:32;not null;uniqueIndex:uk_payments_workshop_number" json:"payment_number"`

	InvoiceID  uint      `gorm:"not null;index:idx_payments_invoice_id" json:"invoice_id"`
	Invoice    *Invoice  `gorm:"foreignKey:InvoiceID;references:ID" json:"invoice,omitempty"`
	SupplierID uint      `gorm:"not null;index:idx_payments_supplier_id" json:"supplier_id"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID;references:ID" json:"supplier,omitempty"`

	Amount      float64 `gorm:"type:numeric(14,2);not null" json:"amount"`
	Method      string  `gorm:"size:20;not null;default:'transfer'" json:"method"`
	ReferenceNo *string `gorm:"size:100" json:"reference_no,omitempty"`
	Notes       *string `gorm:"type:text" json:"notes,omitempty"`
	PaidByID    *uint   `json:"paid_by_id,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_payments_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentFilter represents filter criteria for payment queries
type PaymentFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkshopID    *uint
	PaymentNumber *string
	InvoiceID     *uint
	SupplierID    *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
