// Package models contains domain entities and business models for the workshop ERP
package models

import (
	"time"

	"github.com/google/uuid"
)

// Workshop represents a tenant: a single garage/dealership whose data never
// mixes with another workshop's. Every domain row carries a WorkshopID.
// Table: workshops
type Workshop struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_workshops_uuid" json:"uuid"`

	Name         string  `gorm:"size:255;not null" json:"name"`
	LegalName    *string `gorm:"size:255" json:"legal_name,omitempty"`
	Email        string  `gorm:"size:255;not null;uniqueIndex:uk_workshops_email" json:"email"`
	Phone        *string `gorm:"size:20" json:"phone,omitempty"`
	Address      *string `gorm:"type:text" json:"address,omitempty"`
	CurrencyCode string  `gorm:"size:3;not null;default:'USD'" json:"currency_code"`
	TaxRate      float64 `gorm:"type:numeric(6,4);not null;default:0.10" json:"tax_rate"`

	IsActive  *bool     `gorm:"default:true;index:idx_workshops_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Workshop) TableName() string {
	return "workshops"
}

// WorkshopFilter represents filter criteria for workshop queries
type WorkshopFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	Email    *string
	IsActive *bool
}
