package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// InvoiceRepositoryImpl implements InvoiceRepository interface
type InvoiceRepositoryImpl struct {
	*BaseRepository[models.Invoice, models.InvoiceFilter]
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &InvoiceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Invoice, models.InvoiceFilter](db),
	}
}

// ByUUID retrieves an invoice by UUID
func (r *InvoiceRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Invoice, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.InvoiceFilter{UUID: &id}
	invoices, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, nil
	}

	return invoices[0], nil
}

// ListByWorkshop retrieves a workshop's invoices with pagination, optionally
// restricted to one kind (receivable or payable)
func (r *InvoiceRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint, kind *models.InvoiceKind, limit, offset int) ([]*models.Invoice, error) {
	filter := models.InvoiceFilter{WorkshopID: &workshopID, Kind: kind}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// Update persists invoice changes
func (r *InvoiceRepositoryImpl) Update(ctx context.Context, invoice models.Invoice) error {
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

	invoice.UpdatedAt = utils.UTCNow()

	err = db.Save(&invoice).Error
	if err != nil {
		return fmt.Errorf("failed to update invoice %d: %w", invoice.ID, err)
	}

	return nil
}

// SumOutstanding returns the total unpaid amount across a workshop's open
// invoices of the given kind
func (r *InvoiceRepositoryImpl) SumOutstanding(ctx context.Context, workshopID uint, kind models.InvoiceKind) (float64, error) {
	db := r.getDB(ctx)

	var total float64
	err := db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(grand_total - amount_paid), 0)").
		Where("workshop_id = ? AND kind = ? AND status IN ?", workshopID, kind,
			[]models.InvoiceStatus{models.InvoiceStatusIssued, models.InvoiceStatusPartiallyPaid}).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum outstanding invoices: %w", err)
	}

	return total, nil
}

// RevenueByMonth aggregates receivable invoice totals per calendar month since
// the given point in time
func (r *InvoiceRepositoryImpl) RevenueByMonth(ctx context.Context, workshopID uint, since time.Time) ([]MonthlyRevenue, error) {
	db := r.getDB(ctx)

	var rows []MonthlyRevenue
	err := db.Raw(`
		SELECT date_trunc('month', created_at) AS month,
		       COALESCE(SUM(grand_total), 0)  AS total,
		       COUNT(*)                       AS count
		FROM invoices
		WHERE workshop_id = ?
		  AND kind = ?
		  AND status != ?
		  AND created_at >= ?
		GROUP BY 1
		ORDER BY 1
	`, workshopID, models.InvoiceKindReceivable, models.InvoiceStatusVoid, since).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue by month: %w", err)
	}

	return rows, nil
}

// ByFilter retrieves invoices based on filter criteria
func (r *InvoiceRepositoryImpl) ByFilter(ctx context.Context, filter models.InvoiceFilter, orderBy string, limit, offset int) ([]*models.Invoice, error) {
	db := r.getDB(ctx)

	var invoices []*models.Invoice
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

	err := query.Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find invoices by filter: %w", err)
	}

	return invoices, nil
}

// Count returns the number of invoices matching the filter
func (r *InvoiceRepositoryImpl) Count(ctx context.Context, filter models.InvoiceFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Invoice{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	return count, nil
}

// Exists checks if any invoice matching the filter exists
func (r *InvoiceRepositoryImpl) Exists(ctx context.Context, filter models.InvoiceFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *InvoiceRepositoryImpl) applyFilter(db *gorm.DB, filter models.InvoiceFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.InvoiceNumber != nil {
		db = db.Where("invoice_number = ?", *filter.InvoiceNumber)
	}
	if filter.Kind != nil {
		db = db.Where("kind = ?", *filter.Kind)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.SupplierID != nil {
		db = db.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.JobCardID != nil {
		db = db.Where("job_card_id = ?", *filter.JobCardID)
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
