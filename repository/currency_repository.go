package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// CurrencyRepositoryImpl implements CurrencyRepository interface
type CurrencyRepositoryImpl struct {
	*BaseRepository[models.Currency, models.CurrencyFilter]
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *gorm.DB) CurrencyRepository {
	return &CurrencyRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Currency, models.CurrencyFilter](db),
	}
}

// ByCode retrieves a workshop's currency by ISO code
func (r *CurrencyRepositoryImpl) ByCode(ctx context.Context, workshopID uint, code string) (*models.Currency, error) {
	filter := models.CurrencyFilter{WorkshopID: &workshopID, Code: &code}
	currencies, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(currencies) == 0 {
		return nil, nil
	}

	return currencies[0], nil
}

// ListByWorkshop retrieves all currencies configured for a workshop
func (r *CurrencyRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint) ([]*models.Currency, error) {
	filter := models.CurrencyFilter{WorkshopID: &workshopID}
	return r.ByFilter(ctx, filter, "code ASC", 0, 0)
}

// Update persists currency changes
func (r *CurrencyRepositoryImpl) Update(ctx context.Context, currency models.Currency) error {
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

	currency.UpdatedAt = utils.UTCNow()

	err = db.Save(&currency).Error
	if err != nil {
		return fmt.Errorf("failed to update currency %d: %w", currency.ID, err)
	}

	return nil
}

// ByFilter retrieves currencies based on filter criteria
func (r *CurrencyRepositoryImpl) ByFilter(ctx context.Context, filter models.CurrencyFilter, orderBy string, limit, offset int) ([]*models.Currency, error) {
	db := r.getDB(ctx)

	var currencies []*models.Currency
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

	err := query.Find(&currencies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find currencies by filter: %w", err)
	}

	return currencies, nil
}

// Count returns the number of currencies matching the filter
func (r *CurrencyRepositoryImpl) Count(ctx context.Context, filter models.CurrencyFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Currency{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count currencies: %w", err)
	}

	return count, nil
}

// Exists checks if any currency matching the filter exists
func (r *CurrencyRepositoryImpl) Exists(ctx context.Context, filter models.CurrencyFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CurrencyRepositoryImpl) applyFilter(db *gorm.DB, filter models.CurrencyFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsBase != nil {
		db = db.Where("is_base = ?", *filter.IsBase)
	}
	return db
}
