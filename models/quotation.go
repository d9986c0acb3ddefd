package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
	QuotationStatusExpired  QuotationStatus = "expired"
)

// String returns the string representation of the status
func (s QuotationStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted,
		QuotationStatusRejected, QuotationStatusExpired:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for QuotationStatus
func (s *QuotationStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = QuotationStatus(v)
	case []byte:
		*s = QuotationStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into QuotationStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for QuotationStatus
func (s QuotationStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid QuotationStatus: %s", s)
	}
	return string(s), nil
}

// Quotation represents a priced estimate offered to a customer before work
// starts. An accepted quotation can be converted into a job card.
// QuoteNumber is minted by the sequence allocator ("QN" counter).
// Table: quotations
type Quotation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_quotations_uuid" json:"uuid"`
	WorkshopID  uint      `gorm:"not null;uniqueIndex:uk_quotations_workshop_number;index:idx_quotations_workshop_id" json:"workshop_id"`
	QuoteNumber string    `gorm:"size:32;not null;uniqueIndex:uk_quotations_workshop_number" json:"quote_number"`

	CustomerID uint      `gorm:"not null;index:idx_quotations_customer_id" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	VehicleID  *uint     `gorm:"index:idx_quotations_vehicle_id" json:"vehicle_id,omitempty"`
	Vehicle    *Vehicle  `gorm:"foreignKey:VehicleID;references:ID" json:"vehicle,omitempty"`

	Lines      DocumentLines   `gorm:"type:jsonb;not null;default:'[]'" json:"lines"`
	Status     QuotationStatus `gorm:"type:quotation_status_enum;not null;default:'draft';index:idx_quotations_status" json:"status"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	Notes      *string         `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_quotations_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Quotation) TableName() string {
	return "quotations"
}

// QuotationFilter represents filter criteria for quotation queries
type QuotationFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkshopID    *uint
	QuoteNumber   *string
	CustomerID    *uint
	VehicleID     *uint
	Status        *QuotationStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
