package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// EmployeeRepositoryImpl implements EmployeeRepository interface
type EmployeeRepositoryImpl struct {
	*BaseRepository[models.Employee, models.EmployeeFilter]
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &EmployeeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Employee, models.EmployeeFilter](db),
	}
}

// ByUUID retrieves an employee by UUID
func (r *EmployeeRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Employee, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.EmployeeFilter{UUID: &id}
	employees, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, nil
	}

	return employees[0], nil
}

// ListByWorkshop retrieves a workshop's employees with pagination
func (r *EmployeeRepositoryImpl) ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.Employee, error) {
	filter := models.EmployeeFilter{WorkshopID: &workshopID}
	return r.ByFilter(ctx, filter, "staff_number ASC", limit, offset)
}

// Update persists employee changes
func (r *EmployeeRepositoryImpl) Update(ctx context.Context, employee models.Employee) error {
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

	employee.UpdatedAt = utils.UTCNow()

	err = db.Save(&employee).Error
	if err != nil {
		return fmt.Errorf("failed to update employee %d: %w", employee.ID, err)
	}

	return nil
}

// ByFilter retrieves employees based on filter criteria
func (r *EmployeeRepositoryImpl) ByFilter(ctx context.Context, filter models.EmployeeFilter, orderBy string, limit, offset int) ([]*models.Employee, error) {
	db := r.getDB(ctx)

	var employees []*models.Employee
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

	err := query.Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find employees by filter: %w", err)
	}

	return employees, nil
}

// Count returns the number of employees matching the filter
func (r *EmployeeRepositoryImpl) Count(ctx context.Context, filter models.EmployeeFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Employee{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}

// Exists checks if any employee matching the filter exists
func (r *EmployeeRepositoryImpl) Exists(ctx context.Context, filter models.EmployeeFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *EmployeeRepositoryImpl) applyFilter(db *gorm.DB, filter models.EmployeeFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.StaffNumber != nil {
		db = db.Where("staff_number = ?", *filter.StaffNumber)
	}
	if filter.Position != nil {
		db = db.Where("position = ?", *filter.Position)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
