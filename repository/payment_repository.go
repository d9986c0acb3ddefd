package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// PaymentRepositoryImpl implements PaymentRepository interface
type PaymentRepositoryImpl struct {
	*BaseRepository[models.Payment, models.PaymentFilter]
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Payment, models.PaymentFilter](db),
	}
}

// ByUUID retrieves a payment by UUID
func (r *PaymentRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Payment, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.PaymentFilter{UUID: &id}
	payments, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, nil
	}

	return payments[0], nil
}

// ListByInvoice retrieves all payments applied to a payable invoice
func (r *PaymentRepositoryImpl) ListByInvoice(ctx context.Context, invoiceID uint) ([]*models.Payment, error) {
	filter := models.PaymentFilter{InvoiceID: &invoiceID}
	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// ByFilter retrieves payments based on filter criteria
func (r *PaymentRepositoryImpl) ByFilter(ctx context.Context, filter models.PaymentFilter, orderBy string, limit, offset int) ([]*models.Payment, error) {
	db := r.getDB(ctx)

	var payments []*models.Payment
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

	err := query.Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find payments by filter: %w", err)
	}

	return payments, nil
}

// Count returns the number of payments matching the filter
func (r *PaymentRepositoryImpl) Count(ctx context.Context, filter models.PaymentFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Payment{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}

	return count, nil
}

// Exists checks if any payment matching the filter exists
func (r *PaymentRepositoryImpl) Exists(ctx context.Context, filter models.PaymentFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PaymentRepositoryImpl) applyFilter(db *gorm.DB, filter models.PaymentFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.PaymentNumber != nil {
		db = db.Where("payment_number = ?", *filter.PaymentNumber)
	}
	if filter.InvoiceID != nil {
		db = db.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.SupplierID != nil {
		db = db.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
