package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// Attachment represents an uploaded job-card photo stored on disk, with a
// pre-rendered JPEG thumbnail for listings.
type Attachment struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID             uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	WorkshopID       uint      `gorm:"not null;index" json:"workshop_id"`
	JobCardID        uint      `gorm:"not null;index" json:"job_card_id"`
	OriginalFilename string    `gorm:"type:varchar(255);not null" json:"original_filename"`
	StoredPath       string    `gorm:"type:text;not null" json:"stored_path"`
	ThumbnailPath    *string   `gorm:"type:text" json:"thumbnail_path,omitempty"`
	SizeBytes        int64     `gorm:"type:bigint;not null" json:"size_bytes"`
	MimeType         string    `gorm:"type:varchar(100);not null" json:"mime_type"`
	Extension        string    `gorm:"type:varchar(20);not null" json:"extension"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	JobCard *JobCard `gorm:"foreignKey:JobCardID;references:ID;constraint:OnDelete:CASCADE" json:"job_card,omitempty"`
}

func (Attachment) TableName() string { return "attachments" }

// BeforeCreate ensures UUID and timestamps are set.
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// AttachmentFilter represents filter criteria for attachment queries.
type AttachmentFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	WorkshopID    *uint      `json:"workshop_id,omitempty"`
	JobCardID     *uint      `json:"job_card_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
