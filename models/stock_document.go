package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StockDocumentKind distinguishes receiving notes (stock in) from issue
// notes (stock out).
type StockDocumentKind string

const (
	StockDocumentKindReceiving StockDocumentKind = "receiving"
	StockDocumentKindIssue     StockDocumentKind = "issue"
)

// Valid checks if the kind is valid
func (k StockDocumentKind) Valid() bool {
	return k == StockDocumentKindReceiving || k == StockDocumentKindIssue
}

// Scan implements the sql.Scanner interface for StockDocumentKind
func (k *StockDocumentKind) Scan(value any) error {
	if value == nil {
		*k = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*k = StockDocumentKind(v)
	case []byte:
		*k = StockDocumentKind(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StockDocumentKind", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for StockDocumentKind
func (k StockDocumentKind) Value() (driver.Value, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid StockDocumentKind: %s", k)
	}
	return string(k), nil
}

// StockLine is one item movement inside a stock document
type StockLine struct {
	ItemSKU  string  `json:"item_sku"`
	Quantity float64 `json:"quantity"`
	UnitCost float64 `json:"unit_cost,omitempty"`
}

// StockLines is the JSONB column type holding a stock document's movements
type StockLines []StockLine

// Value implements the driver.Valuer interface for StockLines
func (ls StockLines) Value() (driver.Value, error) {
	if ls == nil {
		ls = StockLines{}
	}
	return json.Marshal(ls)
}

// Scan implements the sql.Scanner interface for StockLines
func (ls *StockLines) Scan(value any) error {
	if value == nil {
		*ls = StockLines{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StockLines", value)
	}

	return json.Unmarshal(bytes, ls)
}

// StockDocument represents a numbered stock movement: a goods receiving note
// ("GRN" counter, optionally tied to a supplier) or an issue note ("ISN"
// counter, optionally tied to a job card). The on-hand quantities of all
// referenced items are adjusted in the same transaction.
// Table: stock_documents
type StockDocument struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_stock_documents_uuid" json:"uuid"`
	WorkshopID     uint      `gorm:"not null;uniqueIndex:uk_stock_documents_workshop_number;index:idx_stock_documents_workshop_id" json:"workshop_id"`
	DocumentNumber string    `gorm:"size:32;not null;uniqueIndex:uk_stock_documents_workshop_number" json:"document_number"`

	Kind       StockDocumentKind `gorm:"type:stock_document_kind_enum;not null;index:idx_stock_documents_kind" json:"kind"`
	SupplierID *uint             `gorm:"index:idx_stock_documents_supplier_id" json:"supplier_id,omitempty"`
	Supplier   *Supplier         `gorm:"foreignKey:SupplierID;references:ID" json:"supplier,omitempty"`
	JobCardID  *uint             `gorm:"index:idx_stock_documents_job_card_id" json:"job_card_id,omitempty"`

	Lines StockLines `gorm:"type:jsonb;not null;default:'[]'" json:"lines"`
	Notes *string    `gorm:"type:text" json:"notes,omitempty"`

	CreatedByID *uint     `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_stock_documents_created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (StockDocument) TableName() string {
	return "stock_documents"
}

// StockDocumentFilter represents filter criteria for stock document queries
type StockDocumentFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	WorkshopID     *uint
	DocumentNumber *string
	Kind           *StockDocumentKind
	SupplierID     *uint
	JobCardID      *uint
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
}
