package businessflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"gorm.io/gorm"
)

// CustomerFlow handles workshop customer management
type CustomerFlow interface {
	CreateCustomer(ctx context.Context, request *dto.CreateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerDTO, error)
	UpdateCustomer(ctx context.Context, request *dto.UpdateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerDTO, error)
	GetCustomer(ctx context.Context, workshopID uint, customerUUID string) (*dto.CustomerDTO, error)
	ListCustomers(ctx context.Context, request *dto.ListCustomersRequest) (*dto.ListCustomersResponse, error)
}

// CustomerFlowImpl implements the customer business flow
type CustomerFlowImpl struct {
	customerRepo repository.CustomerRepository
	db           *gorm.DB
}

// NewCustomerFlow creates a new customer flow instance
func NewCustomerFlow(customerRepo repository.CustomerRepository, db *gorm.DB) CustomerFlow {
	return &CustomerFlowImpl{
		customerRepo: customerRepo,
		db:           db,
	}
}

// CreateCustomer registers a new customer for the workshop
func (cf *CustomerFlowImpl) CreateCustomer(ctx context.Context, request *dto.CreateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerDTO, error) {
	customer := &models.Customer{
		UUID:        uuid.New(),
		WorkshopID:  request.WorkshopID,
		FirstName:   request.FirstName,
		LastName:    request.LastName,
		CompanyName: request.CompanyName,
		Mobile:      request.Mobile,
		Email:       request.Email,
		Address:     request.Address,
		TaxNumber:   request.TaxNumber,
	}

	if err := cf.customerRepo.Save(ctx, customer); err != nil {
		return nil, NewBusinessError("CUSTOMER_CREATE_FAILED", "Customer creation failed", err)
	}

	result := ToCustomerDTO(*customer)
	return &result, nil
}

// UpdateCustomer edits an existing customer's details
func (cf *CustomerFlowImpl) UpdateCustomer(ctx context.Context, request *dto.UpdateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerDTO, error) {
	var updated *models.Customer

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		customer, err := cf.findWorkshopCustomer(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		if request.FirstName != nil {
			customer.FirstName = *request.FirstName
		}
		if request.LastName != nil {
			customer.LastName = *request.LastName
		}
		if request.CompanyName != nil {
			customer.CompanyName = request.CompanyName
		}
		if request.Mobile != nil {
			customer.Mobile = *request.Mobile
		}
		if request.Email != nil {
			customer.Email = request.Email
		}
		if request.Address != nil {
			customer.Address = request.Address
		}
		if request.TaxNumber != nil {
			customer.TaxNumber = request.TaxNumber
		}
		if request.IsActive != nil {
			customer.IsActive = request.IsActive
		}

		if err := cf.customerRepo.Update(ctx, *customer); err != nil {
			return err
		}

		updated = customer
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("CUSTOMER_UPDATE_FAILED", "Customer update failed", err)
	}

	result := ToCustomerDTO(*updated)
	return &result, nil
}

// GetCustomer returns one customer scoped to the workshop
func (cf *CustomerFlowImpl) GetCustomer(ctx context.Context, workshopID uint, customerUUID string) (*dto.CustomerDTO, error) {
	customer, err := cf.findWorkshopCustomer(ctx, workshopID, customerUUID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_GET_FAILED", "Customer lookup failed", err)
	}

	result := ToCustomerDTO(*customer)
	return &result, nil
}

// ListCustomers returns a page of the workshop's customers
func (cf *CustomerFlowImpl) ListCustomers(ctx context.Context, request *dto.ListCustomersRequest) (*dto.ListCustomersResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	customers, err := cf.customerRepo.ListByWorkshop(ctx, request.WorkshopID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LIST_FAILED", "Customer listing failed", err)
	}

	total, err := cf.customerRepo.Count(ctx, models.CustomerFilter{WorkshopID: &request.WorkshopID})
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LIST_FAILED", "Customer listing failed", err)
	}

	items := make([]dto.CustomerDTO, 0, len(customers))
	for _, c := range customers {
		items = append(items, ToCustomerDTO(*c))
	}

	return &dto.ListCustomersResponse{Items: items, Total: total}, nil
}

func (cf *CustomerFlowImpl) findWorkshopCustomer(ctx context.Context, workshopID uint, customerUUID string) (*models.Customer, error) {
	customer, err := cf.customerRepo.ByUUID(ctx, customerUUID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.WorkshopID != workshopID {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}
