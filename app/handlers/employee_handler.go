package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/app/middleware"
	businessflow "github.com/pitline/pitline/business_flow"
)

// EmployeeHandlerInterface defines the contract for employee handlers
type EmployeeHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// EmployeeHandler handles employee HTTP requests
type EmployeeHandler struct {
	employeeFlow businessflow.EmployeeFlow
	validator    *validator.Validate
}

func (h *EmployeeHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *EmployeeHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeFlow businessflow.EmployeeFlow) *EmployeeHandler {
	return &EmployeeHandler{
		employeeFlow: employeeFlow,
		validator:    validator.New(),
	}
}

// Create registers a new employee and mints their staff number
// @Summary Create Employee
// @Description Register a new employee in the workshop's HR register
// @Tags Employees
// @Accept json
// @Produce json
// @Param request body dto.CreateEmployeeRequest true "Employee details"
// @Success 201 {object} dto.APIResponse{data=dto.CreateEmployeeResponse} "Employee created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/employees [post]
func (h *EmployeeHandler) Create(c fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}
	req.WorkshopID = workshopID

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.employeeFlow.CreateEmployee(h.createRequestContext(c, "/api/v1/employees"), &req, metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create employee", "EMPLOYEE_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Employee created", result)
}

// Update changes an employee's details
// @Summary Update Employee
// @Description Update an employee. The staff number never changes.
// @Tags Employees
// @Accept json
// @Produce json
// @Param uuid path string true "Employee UUID"
// @Param request body dto.UpdateEmployeeRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.EmployeeDTO} "Employee updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Employee not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/employees/{uuid} [put]
func (h *EmployeeHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateEmployeeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}
	req.WorkshopID = workshopID
	req.UUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.employeeFlow.UpdateEmployee(h.createRequestContext(c, "/api/v1/employees/{uuid}"), &req, metadata)
	if err != nil {
		if businessflow.IsEmployeeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Employee not found", "EMPLOYEE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update employee", "EMPLOYEE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Employee updated", result)
}

// Get returns one employee
// @Summary Get Employee
// @Description Fetch an employee by uuid
// @Tags Employees
// @Produce json
// @Param uuid path string true "Employee UUID"
// @Success 200 {object} dto.APIResponse{data=dto.EmployeeDTO} "Employee"
// @Failure 404 {object} dto.APIResponse "Employee not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/employees/{uuid} [get]
func (h *EmployeeHandler) Get(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.employeeFlow.GetEmployee(h.createRequestContext(c, "/api/v1/employees/{uuid}"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsEmployeeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Employee not found", "EMPLOYEE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch employee", "EMPLOYEE_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Employee retrieved", result)
}

// List returns the workshop's employees
// @Summary List Employees
// @Description List the workshop's employees
// @Tags Employees
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListEmployeesResponse} "Employees"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/employees [get]
func (h *EmployeeHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	page, pageSize := parsePagination(c)

	result, err := h.employeeFlow.ListEmployees(h.createRequestContext(c, "/api/v1/employees"), workshopID, page, pageSize)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list employees", "EMPLOYEE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Employees retrieved", result)
}

func (h *EmployeeHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
