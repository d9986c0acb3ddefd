package businessflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"gorm.io/gorm"
)

// VehicleFlow handles vehicle registration and lookups
type VehicleFlow interface {
	CreateVehicle(ctx context.Context, request *dto.CreateVehicleRequest, metadata *ClientMetadata) (*dto.VehicleDTO, error)
	UpdateVehicle(ctx context.Context, request *dto.UpdateVehicleRequest, metadata *ClientMetadata) (*dto.VehicleDTO, error)
	GetVehicle(ctx context.Context, workshopID uint, vehicleUUID string) (*dto.VehicleDTO, error)
	ListCustomerVehicles(ctx context.Context, workshopID uint, customerUUID string) (*dto.ListVehiclesResponse, error)
}

// VehicleFlowImpl implements the vehicle business flow
type VehicleFlowImpl struct {
	vehicleRepo  repository.VehicleRepository
	customerRepo repository.CustomerRepository
	db           *gorm.DB
}

// NewVehicleFlow creates a new vehicle flow instance
func NewVehicleFlow(
	vehicleRepo repository.VehicleRepository,
	customerRepo repository.CustomerRepository,
	db *gorm.DB,
) VehicleFlow {
	return &VehicleFlowImpl{
		vehicleRepo:  vehicleRepo,
		customerRepo: customerRepo,
		db:           db,
	}
}

// CreateVehicle registers a vehicle under one of the workshop's customers
func (vf *VehicleFlowImpl) CreateVehicle(ctx context.Context, request *dto.CreateVehicleRequest, metadata *ClientMetadata) (*dto.VehicleDTO, error) {
	var vehicle *models.Vehicle

	err := repository.WithTransaction(ctx, vf.db, func(ctx context.Context) error {
		customer, err := vf.customerRepo.ByUUID(ctx, request.CustomerUUID)
		if err != nil {
			return err
		}
		if customer == nil || customer.WorkshopID != request.WorkshopID {
			return ErrCustomerNotFound
		}

		existing, err := vf.vehicleRepo.ByPlateNumber(ctx, request.WorkshopID, request.PlateNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrPlateAlreadyExists
		}

		vehicle = &models.Vehicle{
			UUID:        uuid.New(),
			WorkshopID:  request.WorkshopID,
			CustomerID:  customer.ID,
			PlateNumber: request.PlateNumber,
			VIN:         request.VIN,
			Make:        request.Make,
			Model:       request.Model,
			Year:        request.Year,
			Color:       request.Color,
			Odometer:    request.Odometer,
		}

		return vf.vehicleRepo.Save(ctx, vehicle)
	})

	if err != nil {
		return nil, NewBusinessError("VEHICLE_CREATE_FAILED", "Vehicle creation failed", err)
	}

	result := ToVehicleDTO(*vehicle)
	return &result, nil
}

// UpdateVehicle edits the mutable details of a registered vehicle
func (vf *VehicleFlowImpl) UpdateVehicle(ctx context.Context, request *dto.UpdateVehicleRequest, metadata *ClientMetadata) (*dto.VehicleDTO, error) {
	var updated *models.Vehicle

	err := repository.WithTransaction(ctx, vf.db, func(ctx context.Context) error {
		vehicle, err := vf.findWorkshopVehicle(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		if request.VIN != nil {
			vehicle.VIN = request.VIN
		}
		if request.Color != nil {
			vehicle.Color = request.Color
		}
		if request.Odometer != nil {
			vehicle.Odometer = request.Odometer
		}

		if err := vf.vehicleRepo.Update(ctx, *vehicle); err != nil {
			return err
		}

		updated = vehicle
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("VEHICLE_UPDATE_FAILED", "Vehicle update failed", err)
	}

	result := ToVehicleDTO(*updated)
	return &result, nil
}

// GetVehicle returns one vehicle scoped to the workshop
func (vf *VehicleFlowImpl) GetVehicle(ctx context.Context, workshopID uint, vehicleUUID string) (*dto.VehicleDTO, error) {
	vehicle, err := vf.findWorkshopVehicle(ctx, workshopID, vehicleUUID)
	if err != nil {
		return nil, NewBusinessError("VEHICLE_GET_FAILED", "Vehicle lookup failed", err)
	}

	result := ToVehicleDTO(*vehicle)
	return &result, nil
}

// ListCustomerVehicles returns every vehicle registered under the customer
func (vf *VehicleFlowImpl) ListCustomerVehicles(ctx context.Context, workshopID uint, customerUUID string) (*dto.ListVehiclesResponse, error) {
	customer, err := vf.customerRepo.ByUUID(ctx, customerUUID)
	if err != nil {
		return nil, NewBusinessError("VEHICLE_LIST_FAILED", "Vehicle listing failed", err)
	}
	if customer == nil || customer.WorkshopID != workshopID {
		return nil, NewBusinessError("VEHICLE_LIST_FAILED", "Vehicle listing failed", ErrCustomerNotFound)
	}

	vehicles, err := vf.vehicleRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, NewBusinessError("VEHICLE_LIST_FAILED", "Vehicle listing failed", err)
	}

	items := make([]dto.VehicleDTO, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, ToVehicleDTO(*v))
	}

	return &dto.ListVehiclesResponse{Items: items}, nil
}

func (vf *VehicleFlowImpl) findWorkshopVehicle(ctx context.Context, workshopID uint, vehicleUUID string) (*models.Vehicle, error) {
	vehicle, err := vf.vehicleRepo.ByUUID(ctx, vehicleUUID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil || vehicle.WorkshopID != workshopID {
		return nil, ErrVehicleNotFound
	}
	return vehicle, nil
}
