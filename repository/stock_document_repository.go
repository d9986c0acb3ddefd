package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// StockDocumentRepositoryImpl implements StockDocumentRepository interface
type StockDocumentRepositoryImpl struct {
	*BaseRepository[models.StockDocument, models.StockDocumentFilter]
}

// NewStockDocumentRepository creates a new stock document repository
func NewStockDocumentRepository(db *gorm.DB) StockDocumentRepository {
	return &StockDocumentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.StockDocument, models.StockDocumentFilter](db),
	}
}

// ByUUID retrieves a stock document by UUID
func (r *StockDocumentRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.StockDocument, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.StockDocumentFilter{UUID: &id}
	documents, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, nil
	}

	return documents[0], nil
}

// ListByWorkshop retrieves a workshop's stock documents with pagination,
// optionally restricted to one kind (receiving or issue)
func (r *StockDocumentRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint, kind *models.StockDocumentKind, limit, offset int) ([]*models.StockDocument, error) {
	filter := models.StockDocumentFilter{WorkshopID: &workshopID, Kind: kind}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ByFilter retrieves stock documents based on filter criteria
func (r *StockDocumentRepositoryImpl) ByFilter(ctx context.Context, filter models.StockDocumentFilter, orderBy string, limit, offset int) ([]*models.StockDocument, error) {
	db := r.getDB(ctx)

	var documents []*models.StockDocument
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

	err := query.Find(&documents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stock documents by filter: %w", err)
	}

	return documents, nil
}

// Count returns the number of stock documents matching the filter
func (r *StockDocumentRepositoryImpl) Count(ctx context.Context, filter models.StockDocumentFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.StockDocument{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count stock documents: %w", err)
	}

	return count, nil
}

// Exists checks if any stock document matching the filter exists
func (r *StockDocumentRepositoryImpl) Exists(ctx context.Context, filter models.StockDocumentFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *StockDocumentRepositoryImpl) applyFilter(db *gorm.DB, filter models.StockDocumentFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.DocumentNumber != nil {
		db = db.Where("document_number = ?", *filter.DocumentNumber)
	}
	if filter.Kind != nil {
		db = db.Where("kind = ?", *filter.Kind)
	}
	if filter.SupplierID != nil {
		db = db.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.JobCardID != nil {
		db = db.Where("job_card_id = ?", *filter.JobCardID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return db
}
