package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvoiceKind distinguishes receivable (customer) from payable (supplier)
// invoices.
type InvoiceKind string

const (
	InvoiceKindReceivable InvoiceKind = "receivable"
	InvoiceKindPayable    InvoiceKind = "payable"
)

// Valid checks if the kind is valid
func (k InvoiceKind) Valid() bool {
	return k == InvoiceKindReceivable || k == InvoiceKindPayable
}

// Scan implements the sql.Scanner interface for InvoiceKind
func (k *InvoiceKind) Scan(value any) error {
	if value == nil {
		*k = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*k = InvoiceKind(v)
	case []byte:
		*k = InvoiceKind(string(v))
	default:
		return fmt.Errorf("cannot scan %T into InvoiceKind", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for InvoiceKind
func (k InvoiceKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid InvoiceKind: %s", k)
	}
	return string(k), nil
}

// InvoiceStatus represents the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusIssued        InvoiceStatus = "issued"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially-paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusVoid          InvoiceStatus = "void"
)

// Valid checks if the status is valid
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusIssued, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for InvoiceStatus
func (s *InvoiceStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = InvoiceStatus(v)
	case []byte:
		*s = InvoiceStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into InvoiceStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for InvoiceStatus
func (s InvoiceStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid InvoiceStatus: %s", s)
	}
	return string(s), nil
}

// Invoice represents a receivable invoice issued from a job card, or a payable
// invoice recorded against a supplier. InvoiceNumber is minted by the sequence
// allocator ("INV" for receivable, "API" for payable).
// Totals are computed server-side from Lines and the stored tax rate; the
// currency exchange rate is snapshotted at issue time.
// Table: invoices
type Invoice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_invoices_uuid" json:"uuid"`
	WorkshopID    uint      `gorm:"not null;uniqueIndex:uk_invoices_workshop_number;index:idx_invoices_workshop_id" json:"workshop_id"`
	InvoiceNumber string    `gorm:"size:32;not null;uniqueIndex:uk_invoices_workshop_number" json:"invoice_number"`

	Kind       InvoiceKind `gorm:"type:invoice_kind_enum;not null;index:idx_invoices_kind" json:"kind"`
	CustomerID *uint       `gorm:"index:idx_invoices_customer_id" json:"customer_id,omitempty"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	SupplierID *uint       `gorm:"index:idx_invoices_supplier_id" json:"supplier_id,omitempty"`
	Supplier   *Supplier   `gorm:"foreignKey:SupplierID;references:ID" json:"supplier,omitempty"`
	JobCardID  *uint       `gorm:"index:idx_invoices_job_card_id" json:"job_card_id,omitempty"`

	Lines        DocumentLines `gorm:"type:jsonb;not null;default:'[]'" json:"lines"`
	Subtotal     float64       `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	TaxAmount    float64       `gorm:"type:numeric(14,2);not null" json:"tax_amount"`
	Discount     float64       `gorm:"type:numeric(14,2);not null;default:0" json:"discount"`
	GrandTotal   float64       `gorm:"type:numeric(14,2);not null" json:"grand_total"`
	AmountPaid   float64       `gorm:"type:numeric(14,2);not null;default:0" json:"amount_paid"`
	CurrencyCode string        `gorm:"size:3;not null" json:"currency_code"`
	ExchangeRate float64       `gorm:"type:numeric(14,6);not null;default:1" json:"exchange_rate"`

	Status  InvoiceStatus `gorm:"type:invoice_status_enum;not null;default:'issued';index:idx_invoices_status" json:"status"`
	DueDate *time.Time    `json:"due_date,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_invoices_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// Outstanding returns the unpaid remainder of the invoice
func (i Invoice) Outstanding() float64 {
	return i.GrandTotal - i.AmountPaid
}

// InvoiceFilter represents filter criteria for invoice queries
type InvoiceFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkshopID    *uint
	InvoiceNumber *string
	Kind          *InvoiceKind
	CustomerID    *uint
	SupplierID    *uint
	JobCardID     *uint
	Status        *InvoiceStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
