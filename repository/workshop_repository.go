package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// WorkshopRepositoryImpl implements WorkshopRepository interface
type WorkshopRepositoryImpl struct {
	*BaseRepository[models.Workshop, models.WorkshopFilter]
}

// NewWorkshopRepository creates a new workshop repository
func NewWorkshopRepository(db *gorm.DB) WorkshopRepository {
	return &WorkshopRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Workshop, models.WorkshopFilter](db),
	}
}

// ByUUID retrieves a workshop by its UUID
func (r *WorkshopRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Workshop, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.WorkshopFilter{UUID: &id}
	workshops, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(workshops) == 0 {
		return nil, nil
	}

	return workshops[0], nil
}

// ByEmail retrieves a workshop by its contact email
func (r *WorkshopRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Workshop, error) {
	filter := models.WorkshopFilter{Email: &email}
	workshops, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(workshops) == 0 {
		return nil, nil
	}

	return workshops[0], nil
}

// Update persists workshop changes
func (r *WorkshopRepositoryImpl) Update(ctx context.Context, workshop models.Workshop) error {
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

	workshop.UpdatedAt = utils.UTCNow()

	err = db.Save(&workshop).Error
	if err != nil {
		return fmt.Errorf("failed to update workshop %d: %w", workshop.ID, err)
	}

	return nil
}

// ByFilter retrieves workshops based on filter criteria
func (r *WorkshopRepositoryImpl) ByFilter(ctx context.Context, filter models.WorkshopFilter, orderBy string, limit, offset int) ([]*models.Workshop, error) {
	db := r.getDB(ctx)

	var workshops []*models.Workshop
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

	err := query.Find(&workshops).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find workshops by filter: %w", err)
	}

	return workshops, nil
}

// Count returns the number of workshops matching the filter
func (r *WorkshopRepositoryImpl) Count(ctx context.Context, filter models.WorkshopFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Workshop{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count workshops: %w", err)
	}

	return count, nil
}

// Exists checks if any workshop matching the filter exists
func (r *WorkshopRepositoryImpl) Exists(ctx context.Context, filter models.WorkshopFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *WorkshopRepositoryImpl) applyFilter(db *gorm.DB, filter models.WorkshopFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
