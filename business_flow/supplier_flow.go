package businessflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"gorm.io/gorm"
)

// SupplierFlow handles supplier management
type SupplierFlow interface {
	CreateSupplier(ctx context.Context, request *dto.CreateSupplierRequest, metadata *ClientMetadata) (*dto.SupplierDTO, error)
	UpdateSupplier(ctx context.Context, request *dto.UpdateSupplierRequest, metadata *ClientMetadata) (*dto.SupplierDTO, error)
	GetSupplier(ctx context.Context, workshopID uint, supplierUUID string) (*dto.SupplierDTO, error)
	ListSuppliers(ctx context.Context, workshopID uint, page, pageSize int) (*dto.ListSuppliersResponse, error)
}

// SupplierFlowImpl implements the supplier business flow
type SupplierFlowImpl struct {
	supplierRepo repository.SupplierRepository
	db           *gorm.DB
}

// NewSupplierFlow creates a new supplier flow instance
func NewSupplierFlow(supplierRepo repository.SupplierRepository, db *gorm.DB) SupplierFlow {
	return &SupplierFlowImpl{
		supplierRepo: supplierRepo,
		db:           db,
	}
}

// CreateSupplier registers a new supplier for the workshop
func (sf *SupplierFlowImpl) CreateSupplier(ctx context.Context, request *dto.CreateSupplierRequest, metadata *ClientMetadata) (*dto.SupplierDTO, error) {
	supplier := &models.Supplier{
		UUID:          uuid.New(),
		WorkshopID:    request.WorkshopID,
		Name:          request.Name,
		ContactPerson: request.ContactPerson,
		Phone:         request.Phone,
		Email:         request.Email,
		Address:       request.Address,
		TaxNumber:     request.TaxNumber,
	}

	if err := sf.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, NewBusinessError("SUPPLIER_CREATE_FAILED", "Supplier creation failed", err)
	}

	result := ToSupplierDTO(*supplier)
	return &result, nil
}

// UpdateSupplier edits an existing supplier
func (sf *SupplierFlowImpl) UpdateSupplier(ctx context.Context, request *dto.UpdateSupplierRequest, metadata *ClientMetadata) (*dto.SupplierDTO, error) {
	var updated *models.Supplier

	err := repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		supplier, err := sf.findWorkshopSupplier(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		if request.Name != nil {
			supplier.Name = *request.Name
		}
		if request.ContactPerson != nil {
			supplier.ContactPerson = request.ContactPerson
		}
		if request.Phone != nil {
			supplier.Phone = request.Phone
		}
		if request.Email != nil {
			supplier.Email = request.Email
		}
		if request.Address != nil {
			supplier.Address = request.Address
		}
		if request.TaxNumber != nil {
			supplier.TaxNumber = request.TaxNumber
		}
		if request.IsActive != nil {
			supplier.IsActive = request.IsActive
		}

		if err := sf.supplierRepo.Update(ctx, *supplier); err != nil {
			return err
		}

		updated = supplier
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("SUPPLIER_UPDATE_FAILED", "Supplier update failed", err)
	}

	result := ToSupplierDTO(*updated)
	return &result, nil
}

// GetSupplier returns one supplier scoped to the workshop
func (sf *SupplierFlowImpl) GetSupplier(ctx context.Context, workshopID uint, supplierUUID string) (*dto.SupplierDTO, error) {
	supplier, err := sf.findWorkshopSupplier(ctx, workshopID, supplierUUID)
	if err != nil {
		return nil, NewBusinessError("SUPPLIER_GET_FAILED", "Supplier lookup failed", err)
	}

	result := ToSupplierDTO(*supplier)
	return &result, nil
}

// ListSuppliers returns a page of the workshop's suppliers
func (sf *SupplierFlowImpl) ListSuppliers(ctx context.Context, workshopID uint, page, pageSize int) (*dto.ListSuppliersResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	suppliers, err := sf.supplierRepo.ListByWorkshop(ctx, workshopID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("SUPPLIER_LIST_FAILED", "Supplier listing failed", err)
	}

	total, err := sf.supplierRepo.Count(ctx, models.SupplierFilter{WorkshopID: &workshopID})
	if err != nil {
		return nil, NewBusinessError("SUPPLIER_LIST_FAILED", "Supplier listing failed", err)
	}

	items := make([]dto.SupplierDTO, 0, len(suppliers))
	for _, s := range suppliers {
		items = append(items, ToSupplierDTO(*s))
	}

	return &dto.ListSuppliersResponse{Items: items, Total: total}, nil
}

func (sf *SupplierFlowImpl) findWorkshopSupplier(ctx context.Context, workshopID uint, supplierUUID string) (*models.Supplier, error) {
	supplier, err := sf.supplierRepo.ByUUID(ctx, supplierUUID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.WorkshopID != workshopID {
		return nil, ErrSupplierNotFound
	}
	return supplier, nil
}
