package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// Stock adjustment errors
var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("insufficient stock on hand")
)

// InventoryItemRepositoryImpl implements InventoryItemRepository interface
type InventoryItemRepositoryImpl struct {
	*BaseRepository[models.InventoryItem, models.InventoryItemFilter]
}

// NewInventoryItemRepository creates a new inventory item repository
func NewInventoryItemRepository(db *gorm.DB) InventoryItemRepository {
	return &InventoryItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.InventoryItem, models.InventoryItemFilter](db),
	}
}

// ByUUID retrieves an inventory item by UUID
func (r *InventoryItemRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.InventoryItem, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.InventoryItemFilter{UUID: &id}
	items, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	return items[0], nil
}

// BySKU retrieves a workshop's inventory item by SKU
func (r *InventoryItemRepositoryImpl) BySKU(ctx context.Context, workshopID uint, sku string) (*models.InventoryItem, error) {
	filter := models.InventoryItemFilter{WorkshopID: &workshopID, SKU: &sku}
	items, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	return items[0], nil
}

// ListByWorkshop retrieves a workshop's inventory items with pagination
func (r *InventoryItemRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.InventoryItem, error) {
	filter := models.InventoryItemFilter{WorkshopID: &workshopID}
	return r.ByFilter(ctx, filter, "sku ASC", limit, offset)
}

// Update persists inventory item changes. QuantityOnHand moves only through
// AdjustQuantity so the item row is saved without it here.
func (r *InventoryItemRepositoryImpl) Update(ctx context.Context, item models.InventoryItem) error {
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

	err = db.Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":          item.Name,
			"description":   item.Description,
			"unit":          item.Unit,
			"unit_cost":     item.UnitCost,
			"unit_price":    item.UnitPrice,
			"reorder_level": item.ReorderLevel,
			"is_active":     item.IsActive,
			"updated_at":    utils.UTCNow(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update inventory item %d: %w", item.ID, err)
	}

	return nil
}

// AdjustQuantity moves an item's stock level by delta in a single guarded
// UPDATE. A negative delta that would take the quantity below zero matches no
// row and reports ErrInsufficientStock; the statement joins the transaction in
// ctx so the stock document and the level change commit together.
func (r *InventoryItemRepositoryImpl) AdjustQuantity(ctx context.Context, workshopID uint, sku string, delta float64) error {
	db := r.getDB(ctx)

	result := db.Model(&models.InventoryItem{}).
		Where("workshop_id = ? AND sku = ? AND quantity_on_hand + ? >= 0", workshopID, sku, delta).
		Updates(map[string]any{
			"quantity_on_hand": gorm.Expr("quantity_on_hand + ?", delta),
			"updated_at":       utils.UTCNow(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to adjust stock for %s: %w", sku, result.Error)
	}
	if result.RowsAffected == 0 {
		exists, err := r.Exists(ctx, models.InventoryItemFilter{WorkshopID: &workshopID, SKU: &sku})
		if err != nil {
			return err
		}
		if !exists {
			return ErrItemNotFound
		}
		return ErrInsufficientStock
	}

	return nil
}

// StockValue returns the total cost value of a workshop's stock on hand
func (r *InventoryItemRepositoryImpl) StockValue(ctx context.Context, workshopID uint) (float64, error) {
	db := r.getDB(ctx)

	var total float64
	err := db.Model(&models.InventoryItem{}).
		Select("COALESCE(SUM(quantity_on_hand * unit_cost), 0)").
		Where("workshop_id = ?", workshopID).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute stock value: %w", err)
	}

	return total, nil
}

// ByFilter retrieves inventory items based on filter criteria
func (r *InventoryItemRepositoryImpl) ByFilter(ctx context.Context, filter models.InventoryItemFilter, orderBy string, limit, offset int) ([]*models.InventoryItem, error) {
	db := r.getDB(ctx)

	var items []*models.InventoryItem
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

	err := query.Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory items by filter: %w", err)
	}

	return items, nil
}

// Count returns the number of inventory items matching the filter
func (r *InventoryItemRepositoryImpl) Count(ctx context.Context, filter models.InventoryItemFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.InventoryItem{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count inventory items: %w", err)
	}

	return count, nil
}

// Exists checks if any inventory item matching the filter exists
func (r *InventoryItemRepositoryImpl) Exists(ctx context.Context, filter models.InventoryItemFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *InventoryItemRepositoryImpl) applyFilter(db *gorm.DB, filter models.InventoryItemFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.SKU != nil {
		db = db.Where("sku = ?", *filter.SKU)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
