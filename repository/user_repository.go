package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements UserRepository interface
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User, models.UserFilter](db),
	}
}

// ByEmail retrieves a staff user by email address
func (r *UserRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.User, error) {
	filter := models.UserFilter{Email: &email}
	users, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	return users[0], nil
}

// ByUUID retrieves a staff user by UUID
func (r *UserRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.User, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.UserFilter{UUID: &id}
	users, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	return users[0], nil
}

// ListByWorkshop retrieves all staff users of a workshop
func (r *UserRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint) ([]*models.User, error) {
	filter := models.UserFilter{WorkshopID: &workshopID}
	return r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
}

// UpdateLastLogin records the user's most recent successful login
func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"last_login_at": at,
			"updated_at":    utils.UTCNow(),
		}).Error
}

// ByFilter retrieves users based on filter criteria
func (r *UserRepositoryImpl) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)

	var users []*models.User
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

	err := query.Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find users by filter: %w", err)
	}

	return users, nil
}

// Count returns the number of users matching the filter
func (r *UserRepositoryImpl) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.User{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// Exists checks if any user matching the filter exists
func (r *UserRepositoryImpl) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *UserRepositoryImpl) applyFilter(db *gorm.DB, filter models.UserFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.Role != nil {
		db = db.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
