package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// SupplierRepositoryImpl implements SupplierRepository interface
type SupplierRepositoryImpl struct {
	*BaseRepository[models.Supplier, models.SupplierFilter]
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &SupplierRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Supplier, models.SupplierFilter](db),
	}
}

// ByUUID retrieves a supplier by UUID
func (r *SupplierRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Supplier, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.SupplierFilter{UUID: &id}
	suppliers, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(suppliers) == 0 {
		return nil, nil
	}

	return suppliers[0], nil
}

// ListByWorkshop retrieves a workshop's suppliers with pagination
func (r *SupplierRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.Supplier, error) {
	filter := models.SupplierFilter{WorkshopID: &workshopID}
	return r.ByFilter(ctx, filter, "name ASC", limit, offset)
}

// Update persists supplier changes
func (r *SupplierRepositoryImpl) Update(ctx context.Context, supplier models.Supplier) error {
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

	supplier.UpdatedAt = utils.UTCNow()

	err = db.Save(&supplier).Error
	if err != nil {
		return fmt.Errorf("failed to update supplier %d: %w", supplier.ID, err)
	}

	return nil
}

// ByFilter retrieves suppliers based on filter criteria
func (r *SupplierRepositoryImpl) ByFilter(ctx context.Context, filter models.SupplierFilter, orderBy string, limit, offset int) ([]*models.Supplier, error) {
	db := r.getDB(ctx)

	var suppliers []*models.Supplier
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

	err := query.Find(&suppliers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find suppliers by filter: %w", err)
	}

	return suppliers, nil
}

// Count returns the number of suppliers matching the filter
func (r *SupplierRepositoryImpl) Count(ctx context.Context, filter models.SupplierFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Supplier{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	return count, nil
}

// Exists checks if any supplier matching the filter exists
func (r *SupplierRepositoryImpl) Exists(ctx context.Context, filter models.SupplierFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SupplierRepositoryImpl) applyFilter(db *gorm.DB, filter models.SupplierFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
