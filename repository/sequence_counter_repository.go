package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// Allocator input errors, surfaced before any storage access
var (
	ErrCounterCodeRequired     = errors.New("counter code is required")
	ErrCounterWorkshopRequired = errors.New("counter workshop is required")
	ErrCounterNotFound         = errors.New("counter not found")
)

// SequenceCounterRepositoryImpl implements the SequenceCounterRepository interface
type SequenceCounterRepositoryImpl struct {
	*BaseRepository[models.SequenceCounter, models.SequenceCounterFilter]
}

// NewSequenceCounterRepository creates a new sequence counter repository
func NewSequenceCounterRepository(db *gorm.DB) SequenceCounterRepository {
	return &SequenceCounterRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SequenceCounter, models.SequenceCounterFilter](db),
	}
}

// Allocate mints the next reference number for (workshopID, code) and returns
// the counter row as it stands after the allocation; callers format the
// reference via counter.Reference().
//
// The whole allocation is one INSERT ... ON CONFLICT DO UPDATE ... RETURNING
// statement: a missing row is created at value 1 with the provided
// prefix/description (or their defaults), an existing row has its value
// incremented by exactly 1 while the stored prefix/separator/length win over
// the call arguments. Running as a single statement makes concurrent
// allocations for the same key serialize on the row lock, so two callers can
// never observe the same value. When ctx carries a transaction the statement
// runs inside it and a caller abort rolls the increment back.
func (r *SequenceCounterRepositoryImpl) Allocate(ctx context.Context, workshopID uint, code string, prefix, description *string) (*models.SequenceCounter, error) {
	if workshopID == 0 {
		return nil, ErrCounterWorkshopRequired
	}
	if strings.TrimSpace(code) == "" {
		return nil, ErrCounterCodeRequired
	}

	pfx := ""
	if prefix != nil {
		pfx = *prefix
	}
	desc := models.DefaultCounterDescription(code)
	if description != nil && strings.TrimSpace(*description) != "" {
		desc = *description
	}

	db := r.getDB(ctx)
	now := utils.UTCNow()

	var counter models.SequenceCounter
	err := db.Raw(`
		INSERT INTO sequence_counters (workshop_id, code, description, prefix, separator, value, length, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, TRUE, ?, ?)
		ON CONFLICT (workshop_id, code)
		DO UPDATE SET value = sequence_counters.value + 1, updated_at = EXCLUDED.updated_at
		RETURNING id, workshop_id, code, description, prefix, separator, value, length, status, created_at, updated_at
	`, workshopID, code, desc, pfx, models.CounterDefaultSeparator, models.CounterDefaultLength, now, now).
		Scan(&counter).Error
	if err != nil {
		return nil, fmt.Errorf("failed to allocate %s number for workshop %d: %w", code, workshopID, err)
	}

	return &counter, nil
}

// ByWorkshopAndCode retrieves a counter by its compound key
func (r *SequenceCounterRepositoryImpl) ByWorkshopAndCode(ctx context.Context, workshopID uint, code string) (*models.SequenceCounter, error) {
	filter := models.SequenceCounterFilter{WorkshopID: &workshopID, Code: &code}
	counters, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(counters) == 0 {
		return nil, nil
	}
	return counters[0], nil
}

// ListByWorkshop lists all counters owned by a workshop
func (r *SequenceCounterRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint) ([]*models.SequenceCounter, error) {
	filter := models.SequenceCounterFilter{WorkshopID: &workshopID}
	return r.ByFilter(ctx, filter, "code ASC", 0, 0)
}

// UpdateSettings persists the administrative fields of a counter (prefix,
// separator, length, description, status). The value column is deliberately
// excluded: only Allocate moves it.
func (r *SequenceCounterRepositoryImpl) UpdateSettings(ctx context.Context, counter models.SequenceCounter) error {
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

	result := db.Model(&models.SequenceCounter{}).
		Where("id = ?", counter.ID).
		Updates(map[string]any{
			"description": counter.Description,
			"prefix":      counter.Prefix,
			"separator":   counter.Separator,
			"length":      counter.Length,
			"status":      counter.Status,
			"updated_at":  utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to update counter %d: %w", counter.ID, result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = ErrCounterNotFound
		return err
	}

	return nil
}

// ByFilter retrieves counters based on filter criteria
func (r *SequenceCounterRepositoryImpl) ByFilter(ctx context.Context, filter models.SequenceCounterFilter, orderBy string, limit, offset int) ([]*models.SequenceCounter, error) {
	db := r.getDB(ctx)

	var counters []*models.SequenceCounter
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

	err := query.Find(&counters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find counters by filter: %w", err)
	}

	return counters, nil
}

// Count returns the number of counters matching the filter
func (r *SequenceCounterRepositoryImpl) Count(ctx context.Context, filter models.SequenceCounterFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.SequenceCounter{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count counters: %w", err)
	}

	return count, nil
}

// Exists checks if any counter matching the filter exists
func (r *SequenceCounterRepositoryImpl) Exists(ctx context.Context, filter models.SequenceCounterFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SequenceCounterRepositoryImpl) applyFilter(db *gorm.DB, filter models.SequenceCounterFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	return db
}
