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

// CustomerHandlerInterface defines the contract for customer handlers
type CustomerHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerFlow businessflow.CustomerFlow
	validator    *validator.Validate
}

func (h *CustomerHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CustomerHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerFlow businessflow.CustomerFlow) *CustomerHandler {
	return &CustomerHandler{
		customerFlow: customerFlow,
		validator:    validator.New(),
	}
}

// Create registers a new customer for the caller's workshop
// @Summary Create Customer
// @Description Register a new customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.APIResponse{data=dto.CustomerDTO} "Customer created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers [post]
func (h *CustomerHandler) Create(c fiber.Ctx) error {
	var req dto.CreateCustomerRequest
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

	result, err := h.customerFlow.CreateCustomer(h.createRequestContext(c, "/api/v1/customers"), &req, metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create customer", "CUSTOMER_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Customer created", result)
}

// Update changes a customer's details
// @Summary Update Customer
// @Description Update an existing customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Param request body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CustomerDTO} "Customer updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers/{uuid} [put]
func (h *CustomerHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateCustomerRequest
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

	result, err := h.customerFlow.UpdateCustomer(h.createRequestContext(c, "/api/v1/customers/{uuid}"), &req, metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update customer", "CUSTOMER_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Customer updated", result)
}

// Get returns one customer
// @Summary Get Customer
// @Description Fetch a customer by uuid
// @Tags Customers
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CustomerDTO} "Customer"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers/{uuid} [get]
func (h *CustomerHandler) Get(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.customerFlow.GetCustomer(h.createRequestContext(c, "/api/v1/customers/{uuid}"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch customer", "CUSTOMER_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Customer retrieved", result)
}

// List returns the workshop's customers
// @Summary List Customers
// @Description List the workshop's customers
// @Tags Customers
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListCustomersResponse} "Customers"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers [get]
func (h *CustomerHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListCustomersRequest{
		WorkshopID: workshopID,
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.customerFlow.ListCustomers(h.createRequestContext(c, "/api/v1/customers"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list customers", "CUSTOMER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Customers retrieved", result)
}

func (h *CustomerHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
