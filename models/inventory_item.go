package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem represents a part in the workshop's stock.
// QuantityOnHand is adjusted only through stock documents (receiving and
// issue notes) so every movement is traceable to a numbered document.
// Table: inventory_items
type InventoryItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_inventory_items_uuid" json:"uuid"`
	WorkshopID uint      `gorm:"not null;uniqueIndex:uk_inventory_items_workshop_sku;index:idx_inventory_items_workshop_id" json:"workshop_id"`

	SKU            string   `gorm:"size:64;not null;uniqueIndex:uk_inventory_items_workshop_sku" json:"sku"`
	Name           string   `gorm:"size:255;not null" json:"name"`
	Description    *string  `gorm:"type:text" json:"description,omitempty"`
	Unit           string   `gorm:"size:16;not null;default:'pc'" json:"unit"`
	UnitCost       float64  `gorm:"type:numeric(14,2);not null;default:0" json:"unit_cost"`
	UnitPrice      float64  `gorm:"type:numeric(14,2);not null;default:0" json:"unit_price"`
	QuantityOnHand float64  `gorm:"type:numeric(14,3);not null;default:0" json:"quantity_on_hand"`
	ReorderLevel   *float64 `gorm:"type:numeric(14,3)" json:"reorder_level,omitempty"`

	IsActive  *bool     `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// InventoryItemFilter represents filter criteria for inventory queries
type InventoryItemFilter struct {
	ID         *uint
	UUID       *uuid.UUID
	WorkshopID *uint
	SKU        *string
	Name       *string
	IsActive   *bool
}
