package repository

import (
	"context"
	"fmt"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// VehicleRepositoryImpl implements VehicleRepository interface
type VehicleRepositoryImpl struct {
	*BaseRepository[models.Vehicle, models.VehicleFilter]
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &VehicleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Vehicle, models.VehicleFilter](db),
	}
}

// ByUUID retrieves a vehicle by UUID
func (r *VehicleRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Vehicle, error) {
	id, err := utils.ParseUUID(uuidStr)
	if err != nil {
		return nil, err
	}

	filter := models.VehicleFilter{UUID: &id}
	vehicles, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, nil
	}

	return vehicles[0], nil
}

// ByPlateNumber retrieves a workshop's vehicle by plate number
func (r *VehicleRepositoryImpl) ByPlateNumber(ctx context.Context, workshopID uint, plate string) (*models.Vehicle, error) {
	filter := models.VehicleFilter{WorkshopID: &workshopID, PlateNumber: &plate}
	vehicles, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, nil
	}

	return vehicles[0], nil
}

// ListByCustomer retrieves all vehicles owned by a customer
func (r *VehicleRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint) ([]*models.Vehicle, error) {
	filter := models.VehicleFilter{CustomerID: &customerID}
	return r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
}

// Update persists vehicle changes
func (r *VehicleRepositoryImpl) Update(ctx context.Context, vehicle models.Vehicle) error {
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

	vehicle.UpdatedAt = utils.UTCNow()

	err = db.Save(&vehicle).Error
	if err != nil {
		return fmt.Errorf("failed to update vehicle %d: %w", vehicle.ID, err)
	}

	return nil
}

// ByFilter retrieves vehicles based on filter criteria
func (r *VehicleRepositoryImpl) ByFilter(ctx context.Context, filter models.VehicleFilter, orderBy string, limit, offset int) ([]*models.Vehicle, error) {
	db := r.getDB(ctx)

	var vehicles []*models.Vehicle
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

	err := query.Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicles by filter: %w", err)
	}

	return vehicles, nil
}

// Count returns the number of vehicles matching the filter
func (r *VehicleRepositoryImpl) Count(ctx context.Context, filter models.VehicleFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Vehicle{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	return count, nil
}

// Exists checks if any vehicle matching the filter exists
func (r *VehicleRepositoryImpl) Exists(ctx context.Context, filter models.VehicleFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *VehicleRepositoryImpl) applyFilter(db *gorm.DB, filter models.VehicleFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkshopID != nil {
		db = db.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.PlateNumber != nil {
		db = db.Where("plate_number = ?", *filter.PlateNumber)
	}
	if filter.VIN != nil {
		db = db.Where("vin = ?", *filter.VIN)
	}
	return db
}
