// Package models contains domain entities and business models for the workshop ERP
package models

import (
	"fmt"
	"time"
)

// Counter defaults applied on lazy creation
const (
	CounterDefaultLength    = 5
	CounterDefaultSeparator = "-"
)

// Well-known counter codes minted by the business flows
const (
	CounterCodeJobCard        = "JCN"
	CounterCodeQuotation      = "QN"
	CounterCodeInvoice        = "INV"
	CounterCodePayableInvoice = "API"
	CounterCodeReceipt        = "RN"
	CounterCodePayment        = "PVN"
	CounterCodeReceivingNote  = "GRN"
	CounterCodeIssueNote      = "ISN"
	CounterCodeEmployee       = "EMP"
)

// SequenceCounter is the per-workshop, per-code monotonic counter used to mint
// human-readable reference numbers (job numbers, invoice numbers, receipts...).
// Exactly one row exists per (workshop_id, code); the row is created lazily on
// the first allocation with value = 1.
// Table: sequence_counters
// Unique by (workshop_id, code)
type SequenceCounter struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	WorkshopID uint `gorm:"not null;uniqueIndex:uk_sequence_counters_workshop_code;index:idx_sequence_counters_workshop_id" json:"workshop_id"`

	Code        string `gorm:"size:16;not null;uniqueIndex:uk_sequence_counters_workshop_code" json:"code"`
	Description string `gorm:"size:255;not null" json:"description"`
	Prefix      string `gorm:"size:16;not null;default:''" json:"prefix"`
	Separator   string `gorm:"size:4;not null;default:'-'" json:"separator"`
	Value       int64  `gorm:"not null;default:1" json:"value"`
	Length      int    `gorm:"not null;default:5" json:"length"`

	Status    *bool     `gorm:"default:true" json:"status"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }

// Reference formats the counter's current value as the human-facing reference
// string: prefix + separator + zero-padded value. Values wider than Length are
// rendered unpadded and untruncated.
func (c SequenceCounter) Reference() string {
	return FormatReference(c.Prefix, c.Separator, c.Value, c.Length)
}

// FormatReference builds a reference string from its parts. The decimal
// representation of value is left-padded with '0' up to length characters;
// wider values pass through unchanged.
func FormatReference(prefix, separator string, value int64, length int) string {
	return fmt.Sprintf("%s%s%0*d", prefix, separator, length, value)
}

// DefaultCounterDescription is the description stored when the caller does not
// supply one at creation time.
func DefaultCounterDescription(code string) string {
	return fmt.Sprintf("%s Number", code)
}

// SequenceCounterFilter represents filter criteria for counter queries
type SequenceCounterFilter struct {
	ID         *uint
	WorkshopID *uint
	Code       *string
	Status     *bool
}
