package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// AdminRepositoryImpl implements AdminRepository interface
type AdminRepositoryImpl struct {
	*BaseRepository[models.Admin, models.AdminFilter]
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &AdminRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Admin, models.AdminFilter](db),
	}
}

// ByUsername retrieves an admin by username
func (r *AdminRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.Admin, error) {
	filter := models.AdminFilter{Username: &username}
	admins, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, nil
	}

	return admins[0], nil
}

// UpdateLastLogin records the admin's most recent successful login
func (r *AdminRepositoryImpl) UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.Admin{}).
		Where("id = ?", adminID).
		Updates(map[string]any{
			"last_login_at": at,
			"updated_at":    utils.UTCNow(),
		}).Error
}

// ByFilter retrieves admins based on filter criteria
func (r *AdminRepositoryImpl) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	db := r.getDB(ctx)

	var admins []*models.Admin
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

	err := query.Find(&admins).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find admins by filter: %w", err)
	}

	return admins, nil
}

// Count returns the number of admins matching the filter
func (r *AdminRepositoryImpl) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Admin{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return count, nil
}

// Exists checks if any admin matching the filter exists
func (r *AdminRepositoryImpl) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AdminRepositoryImpl) applyFilter(db *gorm.DB, filter models.AdminFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Username != nil {
		db = db.Where("username = ?", *filter.Username)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
