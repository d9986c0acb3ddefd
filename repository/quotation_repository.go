package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// QuotationRepositoryImpl implements QuotationRepository interface
type QuotationRepositoryImpl struct {
	*BaseRepository[models.Quotation, models.QuotationFilter]
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &QuotationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Quotation, models.QuotationFilter](db),
	}
}

// ByUUID retrieves a quotation by UUID
func (r *QuotationRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Quotation, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.QuotationFilter{UUID: &id}
	quotations, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(quotations) == 0 {
		return nil, nil
	}

	return quotations[0], nil
}

// ListByWorkshop retrieves a workshop's quotations with pagination
func (r *QuotationRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.Quotation, error) {
	filter := models.QuotationFilter{WorkshopID: &workshopID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// Update persists quotation changes
func (r *QuotationRepositoryImpl) Update(ctx context.Context, quotation models.Quotation) error {
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

	quotation.UpdatedAt = utils.UTCNow()

	err = db.Save(&quotation).Error
	if err != nil {
		return fmt.Errorf("failed to update quotation %d: %w", quotation.ID, err)
	}

	return nil
}

// ByFilter retrieves quotations based on filter criteria
func (r *QuotationRepositoryImpl) ByFilter(ctx context.Context, filter models.QuotationFilter, orderBy string, limit, offset int) ([]*models.Quotation, error) {
	db := r.getDB(ctx)

	var quotations []*models.Quotation
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

	err := query.Find(&quotations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find quotations by filter: %w", err)
	}

	return quotations, nil
}

// Count returns the number of quotations matching the filter
func (r *QuotationRepositoryImpl) Count(ctx context.Context, filter models.QuotationFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Quotation{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count quotations: %w", err)
	}

	return count, nil
}

// Exists checks if any quotation matching the filter exists
func (r *QuotationRepositoryImpl) Exists(ctx context.Context, filter models.QuotationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *QuotationRepositoryImpl) applyFilter(db *gorm.DB, filter models.QuotationFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.QuoteNumber != nil {
		db = db.Where("quote_number = ?", *filter.QuoteNumber)
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
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
