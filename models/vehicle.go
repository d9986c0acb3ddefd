package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle represents a customer's vehicle serviced by the workshop.
// Table: vehicles
type Vehicle struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_vehicles_uuid" json:"uuid"`
	WorkshopID uint      `gorm:"not null;index:idx_vehicles_workshop_id" json:"workshop_id"`
	CustomerID uint      `gorm:"not null;index:idx_vehicles_customer_id" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`

	PlateNumber string  `gorm:"size:20;not null;index:idx_vehicles_plate_number" json:"plate_number"`
	VIN         *string `gorm:"size:17" json:"vin,omitempty"`
	Make        string  `gorm:"size:100;not null" json:"make"`
	Model       string  `gorm:"size:100;not null" json:"model"`
	Year        *int    `json:"year,omitempty"`
	Color       *string `gorm:"size:50" json:"color,omitempty"`
	Odometer    *int64  `json:"odometer,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// VehicleFilter represents filter criteria for vehicle queries
type VehicleFilter struct {
	ID          *uint
	UUID        *uuid.UUID
	WorkshopID  *uint
	CustomerID  *uint
	PlateNumber *string
	VIN         *string
}
