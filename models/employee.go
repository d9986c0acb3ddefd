package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee represents an HR record for workshop staff. StaffNumber is minted
// by the sequence allocator ("EMP" counter). An employee may or may not have
// a login (User) attached.
// Table: employees
type Employee struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_employees_uuid" json:"uuid"`
	WorkshopID  uint      `gorm:"not null;uniqueIndex:uk_employees_workshop_number;index:idx_employees_workshop_id" json:"workshop_id"`
	StaffNumber string    `gorm:"size:32;not null;uniqueIndex:uk_employees_workshop_number" json:"staff_number"`

	FirstName string     `gorm:"size:100;not null" json:"first_name"`
	LastName  string     `gorm:"size:100;not null" json:"last_name"`
	Position  string     `gorm:"size:100;not null" json:"position"`
	Mobile    *string    `gorm:"size:20" json:"mobile,omitempty"`
	Email     *string    `gorm:"size:255" json:"email,omitempty"`
	Salary    *float64   `gorm:"type:numeric(14,2)" json:"salary,omitempty"`
	HiredAt   *time.Time `json:"hired_at,omitempty"`
	LeftAt    *time.Time `json:"left_at,omitempty"`
	UserID    *uint      `gorm:"index:idx_employees_user_id" json:"user_id,omitempty"`

	IsActive  *bool     `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// EmployeeFilter represents filter criteria for employee queries
type EmployeeFilter struct {
	ID          *uint
	UUID        *uuid.UUID
	WorkshopID  *uint
	StaffNumber *string
	Position    *string
	IsActive    *bool
}
