package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// ReceiptRepositoryImpl implements ReceiptRepository interface
type ReceiptRepositoryImpl struct {
	*BaseRepository[models.Receipt, models.ReceiptFilter]
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &ReceiptRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Receipt, models.ReceiptFilter](db),
	}
}

// ByUUID retrieves a receipt by UUID
func (r *ReceiptRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Receipt, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.ReceiptFilter{UUID: &id}
	receipts, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return nil, nil
	}

	return receipts[0], nil
}

// ListByInvoice retrieves all receipts applied to an invoice
func (r *ReceiptRepositoryImpl) ListByInvoice(ctx context.Context, invoiceID uint) ([]*models.Receipt, error) {
	filter := models.ReceiptFilter{InvoiceID: &invoiceID}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// ByFilter retrieves receipts based on filter criteria
func (r *ReceiptRepositoryImpl) ByFilter(ctx context.Context, filter models.ReceiptFilter, orderBy string, limit, offset int) ([]*models.Receipt, error) {
	db := r.getDB(ctx)

	var receipts []*models.Receipt
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

	err := query.Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find receipts by filter: %w", err)
	}

	return receipts, nil
}

// Count returns the number of receipts matching the filter
func (r *ReceiptRepositoryImpl) Count(ctx context.Context, filter models.ReceiptFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Receipt{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count receipts: %w", err)
	}

	return count, nil
}

// Exists checks if any receipt matching the filter exists
func (r *ReceiptRepositoryImpl) Exists(ctx context.Context, filter models.ReceiptFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ReceiptRepositoryImpl) applyFilter(db *gorm.DB, filter models.ReceiptFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.ReceiptNumber != nil {
		db = db.Where("receipt_number = ?", *filter.ReceiptNumber)
	}
	if filter.InvoiceID != nil {
		db = db.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
