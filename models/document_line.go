package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Line kinds inside job cards, quotations and invoices
const (
	LineKindLabor = "labor"
	LineKindPart  = "part"
)

// DocumentLine is one labor or part line inside a job card, quotation or
// invoice. Lines are stored as a JSONB document on the parent row, mirroring
// the document shape the frontend edits as a whole.
type DocumentLine struct {
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	ItemSKU     *string  `json:"item_sku,omitempty"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	Discount    float64  `json:"discount,omitempty"`
	Total       *float64 `json:"total,omitempty"`
}

// Amount returns the line total after discount
func (l DocumentLine) Amount() float64 {
	return l.Quantity*l.UnitPrice - l.Discount
}

// DocumentLines is the JSONB column type holding a document's lines
type DocumentLines []DocumentLine

// Subtotal sums all line amounts
func (ls DocumentLines) Subtotal() float64 {
	var sum float64
	for _, l := range ls {
		sum += l.Amount()
	}
	return sum
}

// Value implements the driver.Valuer interface for DocumentLines
func (ls DocumentLines) Value() (driver.Value, error) {
	if ls == nil {
		ls = DocumentLines{}
	}
	return json.Marshal(ls)
}

// Scan implements the sql.Scanner interface for DocumentLines
func (ls *DocumentLines) Scan(value any) error {
	if value == nil {
		*ls = DocumentLines{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into DocumentLines", value)
	}

	return json.Unmarshal(bytes, ls)
}
