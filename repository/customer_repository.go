package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// CustomerRepositoryImpl implements CustomerRepository interface
type CustomerRepositoryImpl struct {
	*BaseRepository[models.Customer, models.CustomerFilter]
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &CustomerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Customer, models.CustomerFilter](db),
	}
}

// ByUUID retrieves a customer by UUID
func (r *CustomerRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Customer, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.CustomerFilter{UUID: &id}
	customers, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, nil
	}

	return customers[0], nil
}

// ListByWorkshop retrieves a workshop's customers with pagination
func (r *CustomerRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.Customer, error) {
	filter := models.CustomerFilter{WorkshopID: &workshopID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// FindByIDs retrieves customers by a set of IDs
func (r *CustomerRepositoryImpl) FindByIDs(ctx context.Context, ids []uint) ([]*models.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var customers []*models.Customer
	err := db.Where("id IN ?", ids).Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find customers by ids: %w", err)
	}

	return customers, nil
}

// Update persists customer changes
func (r *CustomerRepositoryImpl) Update(ctx context.Context, customer models.Customer) error {
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

	customer.UpdatedAt = utils.UTCNow()

	err = db.Save(&customer).Error
	if err != nil {
		return fmt.Errorf("failed to update customer %d: %w", customer.ID, err)
	}

	return nil
}

// ByFilter retrieves customers based on filter criteria
func (r *CustomerRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	db := r.getDB(ctx)

	var customers []*models.Customer
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

	err := query.Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find customers by filter: %w", err)
	}

	return customers, nil
}

// Count returns the number of customers matching the filter
func (r *CustomerRepositoryImpl) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Customer{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return count, nil
}

// Exists checks if any customer matching the filter exists
func (r *CustomerRepositoryImpl) Exists(ctx context.Context, filter models.CustomerFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CustomerRepositoryImpl) applyFilter(db *gorm.DB, filter models.CustomerFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.Mobile != nil {
		db = db.Where("mobile = ?", *filter.Mobile)
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
