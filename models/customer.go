package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a workshop's client (vehicle owner or fleet contact).
// Table: customers
type Customer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_customers_uuid" json:"uuid"`
	WorkshopID uint      `gorm:"not null;index:idx_customers_workshop_id" json:"workshop_id"`
	Workshop   *Workshop `gorm:"foreignKey:WorkshopID;references:ID" json:"workshop,omitempty"`

	FirstName   string  `gorm:"size:100;not null" json:"first_name"`
	LastName    string  `gorm:"size:100;not null" json:"last_name"`
	CompanyName *string `gorm:"size:255" json:"company_name,omitempty"`
	Mobile      string  `gorm:"size:20;not null;index:idx_customers_mobile" json:"mobile"`
	Email       *string `gorm:"size:255" json:"email,omitempty"`
	Address     *string `gorm:"type:text" json:"address,omitempty"`
	TaxNumber   *string `gorm:"size:50" json:"tax_number,omitempty"`

	IsActive  *bool     `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_customers_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// FullName returns the display name of the customer
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	WorkshopID    *uint
	Mobile        *string
	Email         *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
