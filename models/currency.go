package models

import (
	"time"
)

// Currency represents a currency a workshop invoices in, with its exchange
// rate against the workshop's base currency. Invoices snapshot the rate at
// issue time, so editing a rate never rewrites history.
// Table: currencies
type Currency struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	WorkshopID uint `gorm:"not null;uniqueIndex:uk_currencies_workshop_code;index:idx_currencies_workshop_id" json:"workshop_id"`

	Code         string  `gorm:"size:3;not null;uniqueIndex:uk_currencies_workshop_code" json:"code"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Symbol       *string `gorm:"size:8" json:"symbol,omitempty"`
	ExchangeRate float64 `gorm:"type:numeric(14,6);not null;default:1" json:"exchange_rate"`
	IsBase       *bool   `gorm:"default:false" json:"is_base"`

	IsActive  *bool     `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Currency) TableName() string {
	return "currencies"
}

// CurrencyFilter represents filter criteria for currency queries
type CurrencyFilter struct {
	ID         *uint
	WorkshopID *uint
	Code       *string
	IsActive   *bool
	IsBase     *bool
}
