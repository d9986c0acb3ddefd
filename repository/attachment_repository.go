package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// AttachmentRepositoryImpl implements AttachmentRepository interface
type AttachmentRepositoryImpl struct {
	*BaseRepository[models.Attachment, models.AttachmentFilter]
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &AttachmentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Attachment, models.AttachmentFilter](db),
	}
}

// ByUUID retrieves an attachment by UUID
func (r *AttachmentRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Attachment, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.AttachmentFilter{UUID: &id}
	attachments, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(attachments) == 0 {
		return nil, nil
	}

	return attachments[0], nil
}

// ListByJobCard retrieves all attachments of a job card
func (r *AttachmentRepositoryImpl) ListByJobCard(ctx context.Context, jobCardID uint) ([]*models.Attachment, error) {
	filter := models.AttachmentFilter{JobCardID: &jobCardID}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// ByFilter retrieves attachments based on filter criteria
func (r *AttachmentRepositoryImpl) ByFilter(ctx context.Context, filter models.AttachmentFilter, orderBy string, limit, offset int) ([]*models.Attachment, error) {
	db := r.getDB(ctx)

	var attachments []*models.Attachment
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find attachments by filter: %w", err)
	}

	return attachments, nil
}

// Count returns the number of attachments matching the filter
func (r *AttachmentRepositoryImpl) Count(ctx context.Context, filter models.AttachmentFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Attachment{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count attachments: %w", err)
	}

	return count, nil
}

// Exists checks if any attachment matching the filter exists
func (r *AttachmentRepositoryImpl) Exists(ctx context.Context, filter models.AttachmentFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AttachmentRepositoryImpl) applyFilter(db *gorm.DB, filter models.AttachmentFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.JobCardID != nil {
		db = db.Where("job_card_id = ?", *filter.JobCardID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
