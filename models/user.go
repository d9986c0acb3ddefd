package models

import (
	"time"

	"github.com/google/uuid"
)

// User role constants. Roles are plain strings; fine-grained permission
// modeling is out of scope.
const (
	UserRoleOwner      = "owner"
	UserRoleAdvisor    = "advisor"
	UserRoleTechnician = "technician"
	UserRoleAccountant = "accountant"
)

// User represents a staff member who signs in to a workshop.
// Table: users
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`
	WorkshopID uint      `gorm:"not null;index:idx_users_workshop_id" json:"workshop_id"`
	Workshop   *Workshop `gorm:"foreignKey:WorkshopID;references:ID" json:"workshop,omitempty"`

	FirstName    string `gorm:"size:100;not null" json:"first_name"`
	LastName     string `gorm:"size:100;not null" json:"last_name"`
	Email        string `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;not null;default:'advisor'" json:"role"`

	IsActive    *bool      `gorm:"default:true;index:idx_users_is_active" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns the display name of the user
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID         *uint
	UUID       *uuid.UUID
	WorkshopID *uint
	Email      *string
	Role       *string
	IsActive   *bool
}
