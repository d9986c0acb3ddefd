package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// EmployeeFlow handles HR records. Staff numbers are minted by the sequence
// allocator, same as every other document reference.
type EmployeeFlow interface {
	CreateEmployee(ctx context.Context, request *dto.CreateEmployeeRequest, metadata *ClientMetadata) (*dto.CreateEmployeeResponse, error)
	UpdateEmployee(ctx context.Context, request *dto.UpdateEmployeeRequest, metadata *ClientMetadata) (*dto.EmployeeDTO, error)
	GetEmployee(ctx context.Context, workshopID uint, employeeUUID string) (*dto.EmployeeDTO, error)
	ListEmployees(ctx context.Context, workshopID uint, page, pageSize int) (*dto.ListEmployeesResponse, error)
}

// EmployeeFlowImpl implements the employee business flow
type EmployeeFlowImpl struct {
	employeeRepo repository.EmployeeRepository
	counterRepo  repository.SequenceCounterRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewEmployeeFlow creates a new employee flow instance
func NewEmployeeFlow(
	employeeRepo repository.EmployeeRepository,
	counterRepo repository.SequenceCounterRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) EmployeeFlow {
	return &EmployeeFlowImpl{
		employeeRepo: employeeRepo,
		counterRepo:  counterRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// CreateEmployee registers an HR record and mints its staff number inside the
// same transaction as the insert
func (ef *EmployeeFlowImpl) CreateEmployee(ctx context.Context, request *dto.CreateEmployeeRequest, metadata *ClientMetadata) (*dto.CreateEmployeeResponse, error) {
	var employee *models.Employee

	err := repository.WithTransaction(ctx, ef.db, func(ctx context.Context) error {
		counter, err := ef.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodeEmployee, utils.ToPtr(models.CounterCodeEmployee), nil)
		if err != nil {
			return err
		}

		employee = &models.Employee{
			UUID:        uuid.New(),
			WorkshopID:  request.WorkshopID,
			StaffNumber: counter.Reference(),
			FirstName:   request.FirstName,
			LastName:    request.LastName,
			Position:    request.Position,
			Mobile:      request.Mobile,
			Email:       request.Email,
			Salary:      request.Salary,
			HiredAt:     request.HiredAt,
		}

		return ef.employeeRepo.Save(ctx, employee)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Employee registration failed: %s", err.Error())
		_ = ef.logEmployeeAction(ctx, request.WorkshopID, models.AuditActionEmployeeCreated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("EMPLOYEE_CREATE_FAILED", "Employee registration failed", err)
	}

	msg := fmt.Sprintf("Employee registered: %s", employee.StaffNumber)
	_ = ef.logEmployeeAction(ctx, request.WorkshopID, models.AuditActionEmployeeCreated, msg, true, nil, metadata)

	return &dto.CreateEmployeeResponse{
		UUID:        employee.UUID.String(),
		StaffNumber: employee.StaffNumber,
		CreatedAt:   employee.CreatedAt.Format(time.RFC3339),
	}, nil
}

// UpdateEmployee edits an HR record. The staff number is immutable.
func (ef *EmployeeFlowImpl) UpdateEmployee(ctx context.Context, request *dto.UpdateEmployeeRequest, metadata *ClientMetadata) (*dto.EmployeeDTO, error) {
	var updated *models.Employee

	err := repository.WithTransaction(ctx, ef.db, func(ctx context.Context) error {
		employee, err := ef.findWorkshopEmployee(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		if request.Position != nil {
			employee.Position = *request.Position
		}
		if request.Mobile != nil {
			employee.Mobile = request.Mobile
		}
		if request.Email != nil {
			employee.Email = request.Email
		}
		if request.Salary != nil {
			employee.Salary = request.Salary
		}
		if request.LeftAt != nil {
			employee.LeftAt = request.LeftAt
		}
		if request.IsActive != nil {
			employee.IsActive = request.IsActive
		}

		if err := ef.employeeRepo.Update(ctx, *employee); err != nil {
			return err
		}

		updated = employee
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("EMPLOYEE_UPDATE_FAILED", "Employee update failed", err)
	}

	result := ToEmployeeDTO(*updated)
	return &result, nil
}

// GetEmployee returns one HR record scoped to the workshop
func (ef *EmployeeFlowImpl) GetEmployee(ctx context.Context, workshopID uint, employeeUUID string) (*dto.EmployeeDTO, error) {
	employee, err := ef.findWorkshopEmployee(ctx, workshopID, employeeUUID)
	if err != nil {
		return nil, NewBusinessError("EMPLOYEE_GET_FAILED", "Employee lookup failed", err)
	}

	result := ToEmployeeDTO(*employee)
	return &result, nil
}

// ListEmployees returns a page of the workshop's HR records
func (ef *EmployeeFlowImpl) ListEmployees(ctx context.Context, workshopID uint, page, pageSize int) (*dto.ListEmployeesResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	employees, err := ef.employeeRepo.ListByWorkshop(ctx, workshopID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("EMPLOYEE_LIST_FAILED", "Employee listing failed", err)
	}

	total, err := ef.employeeRepo.Count(ctx, models.EmployeeFilter{WorkshopID: &workshopID})
	if err != nil {
		return nil, NewBusinessError("EMPLOYEE_LIST_FAILED", "Employee listing failed", err)
	}

	items := make([]dto.EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		items = append(items, ToEmployeeDTO(*e))
	}

	return &dto.ListEmployeesResponse{Items: items, Total: total}, nil
}

func (ef *EmployeeFlowImpl) findWorkshopEmployee(ctx context.Context, workshopID uint, employeeUUID string) (*models.Employee, error) {
	employee, err := ef.employeeRepo.ByUUID(ctx, employeeUUID)
	if err != nil {
		return nil, err
	}
	if employee == nil || employee.WorkshopID != workshopID {
		return nil, ErrEmployeeNotFound
	}
	return employee, nil
}

func (ef *EmployeeFlowImpl) logEmployeeAction(ctx context.Context, workshopID uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		WorkshopID:   &workshopID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return ef.auditRepo.Save(ctx, audit)
}
