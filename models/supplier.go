package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a parts or service vendor on the payable side.
// Table: suppliers
type Supplier struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_suppliers_uuid" json:"uuid"`
	WorkshopID uint      `gorm:"not null;index:idx_suppliers_workshop_id" json:"workshop_id"`

	Name          string  `gorm:"size:255;not null" json:"name"`
	ContactPerson *string `gorm:"size:255" json:"contact_person,omitempty"`
	Phone         *string `gorm:"size:20" json:"phone,omitempty"`
	Email         *string `gorm:"size:255" json:"email,omitempty"`
	Address       *string `gorm:"type:text" json:"address,omitempty"`
	TaxNumber     *string `gorm:"size:50" json:"tax_number,omitempty"`

	IsActive  *bool     `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierFilter represents filter criteria for supplier queries
type SupplierFilter struct {
	ID         *uint
	UUID       *uuid.UUID
	WorkshopID *uint
	Name       *string
	IsActive   *bool
}
