package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// JobCardRepositoryImpl implements JobCardRepository interface
type JobCardRepositoryImpl struct {
	*BaseRepository[models.JobCard, models.JobCardFilter]
}

// NewJobCardRepository creates a new job card repository
func NewJobCardRepository(db *gorm.DB) JobCardRepository {
	return &JobCardRepositoryImpl{
		BaseRepository: NewBaseRepository[models.JobCard, models.JobCardFilter](db),
	}
}

// ByUUID retrieves a job card by UUID
func (r *JobCardRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.JobCard, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.JobCardFilter{UUID: &id}
	jobCards, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(jobCards) == 0 {
		return nil, nil
	}

	return jobCards[0], nil
}

// ByJobNumber retrieves a workshop's job card by its job number
func (r *JobCardRepositoryImpl) ByJobNumber(ctx context.Context, workshopID uint, jobNumber string) (*models.JobCard, error) {
	filter := models.JobCardFilter{WorkshopID: &workshopID, JobNumber: &jobNumber}
	jobCards, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(jobCards) == 0 {
		return nil, nil
	}

	return jobCards[0], nil
}

// ListByWorkshop retrieves a workshop's job cards with pagination
func (r *JobCardRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.JobCard, error) {
	filter := models.JobCardFilter{WorkshopID: &workshopID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// Update persists job card changes
func (r *JobCardRepositoryImpl) Update(ctx context.Context, jobCard models.JobCard) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	jobCard.UpdatedAt = utils.UTCNow()

	err = db.Save(&jobCard).Error
	if err != nil {
		return fmt.Errorf("failed to update job card %d: %w", jobCard.ID, err)
	}

	return nil
}

// ByFilter retrieves job cards based on filter criteria
func (r *JobCardRepositoryImpl) ByFilter(ctx context.Context, filter models.JobCardFilter, orderBy string, limit, offset int) ([]*models.JobCard, error) {
	db := r.getDB(ctx)

	var jobCards []*models.JobCard
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

	err := query.Find(&jobCards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find job cards by filter: %w", err)
	}

	return jobCards, nil
}

// Count returns the number of job cards matching the filter
func (r *JobCardRepositoryImpl) Count(ctx context.Context, filter models.JobCardFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.JobCard{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count job cards: %w", err)
	}

	return count, nil
}

// Exists checks if any job card matching the filter exists
func (r *JobCardRepositoryImpl) Exists(ctx context.Context, filter models.JobCardFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *JobCardRepositoryImpl) applyFilter(db *gorm.DB, filter models.JobCardFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.JobNumber != nil {
		db = db.Where("job_number = ?", *filter.JobNumber)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.VehicleID != nil {
		db = db.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.AssignedToID != nil {
		db = db.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.QuotationID != nil {
		db = db.Where("quotation_id = ?", *filter.QuotationID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.CompletedAfter != nil {
		db = db.Where("completed_at >= ?", *filter.CompletedAfter)
	}
	return db
}
