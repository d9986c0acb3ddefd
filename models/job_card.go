package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobCardStatus represents the status of a job card
type JobCardStatus string

const (
	JobCardStatusOpen       JobCardStatus = "open"
	JobCardStatusInProgress JobCardStatus = "in-progress"
	JobCardStatusCompleted  JobCardStatus = "completed"
	JobCardStatusInvoiced   JobCardStatus = "invoiced"
	JobCardStatusClosed     JobCardStatus = "closed"
	JobCardStatusCancelled  JobCardStatus = "cancelled"
)

// String returns the string representation of the status
func (s JobCardStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s JobCardStatus) Valid() bool {
	switch s {
	case JobCardStatusOpen, JobCardStatusInProgress, JobCardStatusCompleted,
		JobCardStatusInvoiced, JobCardStatusClosed, JobCardStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status may move to next
func (s JobCardStatus) CanTransitionTo(next JobCardStatus) bool {
	switch s {
	case JobCardStatusOpen:
		return next == JobCardStatusInProgress || next == JobCardStatusCancelled
	case JobCardStatusInProgress:
		return next == JobCardStatusCompleted || next == JobCardStatusCancelled
	case JobCardStatusCompleted:
		return next == JobCardStatusInvoiced || next == JobCardStatusCancelled
	case JobCardStatusInvoiced:
		return next == JobCardStatusClosed
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for JobCardStatus
func (s *JobCardStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = JobCardStatus(v)
	case []byte:
		*s = JobCardStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into JobCardStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for JobCardStatus
func (s JobCardStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid JobCardStatus: %s", s)
	}
	return string(s), nil
}

// JobCard represents a workshop work order for one vehicle visit.
// JobNumber is minted by the sequence allocator ("JCN" counter) inside the
// same transaction as the insert.
// Table: job_cards
type JobCard struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_job_cards_uuid" json:"uuid"`
	WorkshopID uint      `gorm:"not null;uniqueIndex:uk_job_cards_workshop_number;index:idx_job_cards_workshop_id" json:"workshop_id"`
	JobNumber  string    `gorm:"size:32;not null;uniqueIndex:uk_job_cards_workshop_number" json:"job_number"`

	CustomerID uint      `gorm:"not null;index:idx_job_cards_customer_id" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	VehicleID  uint      `gorm:"not null;index:idx_job_cards_vehicle_id" json:"vehicle_id"`
	Vehicle    *Vehicle  `gorm:"foreignKey:VehicleID;references:ID" json:"vehicle,omitempty"`

	Complaint    string        `gorm:"type:text;not null" json:"complaint"`
	Diagnosis    *string       `gorm:"type:text" json:"diagnosis,omitempty"`
	OdometerIn   *int64        `json:"odometer_in,omitempty"`
	Lines        DocumentLines `gorm:"type:jsonb;not null;default:'[]'" json:"lines"`
	Status       JobCardStatus `gorm:"type:job_card_status_enum;not null;default:'open';index:idx_job_cards_status" json:"status"`
	AssignedToID *uint         `gorm:"index:idx_job_cards_assigned_to" json:"assigned_to_id,omitempty"`

	// Set when the job card was converted from an accepted quotation
	QuotationID *uint `gorm:"index:idx_job_cards_quotation_id" json:"quotation_id,omitempty"`

	PromisedAt  *time.Time `json:"promised_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_job_cards_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (JobCard) TableName() string {
	return "job_cards"
}

// JobCardFilter represents filter criteria for job card queries
type JobCardFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	WorkshopID     *uint
	JobNumber      *string
	CustomerID     *uint
	VehicleID      *uint
	Status         *JobCardStatus
	AssignedToID   *uint
	QuotationID    *uint
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
	CompletedAfter *time.Time
}
