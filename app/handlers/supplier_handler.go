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

// SupplierHandlerInterface defines the contract for supplier handlers
type SupplierHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// SupplierHandler handles supplier HTTP requests
type SupplierHandler struct {
	supplierFlow businessflow.SupplierFlow
	validator    *validator.Validate
}

func (h *SupplierHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SupplierHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierFlow businessflow.SupplierFlow) *SupplierHandler {
	return &SupplierHandler{
		supplierFlow: supplierFlow,
		validator:    validator.New(),
	}
}

// Create registers a new supplier
// @Summary Create Supplier
// @Description Register a new parts supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param request body dto.CreateSupplierRequest true "Supplier details"
// @Success 201 {object} dto.APIResponse{data=dto.SupplierDTO} "Supplier created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/suppliers [post]
func (h *SupplierHandler) Create(c fiber.Ctx) error {
	var req dto.CreateSupplierRequest
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

	result, err := h.supplierFlow.CreateSupplier(h.createRequestContext(c, "/api/v1/suppliers"), &req, metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create supplier", "SUPPLIER_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Supplier created", result)
}

// Update changes a supplier's details
// @Summary Update Supplier
// @Description Update an existing supplier
// @Tags Suppliers
// @Accept json
// @Produce json
// @Param uuid path string true "Supplier UUID"
// @Param request body dto.UpdateSupplierRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.SupplierDTO} "Supplier updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Supplier not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/suppliers/{uuid} [put]
func (h *SupplierHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateSupplierRequest
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

	result, err := h.supplierFlow.UpdateSupplier(h.createRequestContext(c, "/api/v1/suppliers/{uuid}"), &req, metadata)
	if err != nil {
		if businessflow.IsSupplierNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Supplier not found", "SUPPLIER_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update supplier", "SUPPLIER_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Supplier updated", result)
}

// Get returns one supplier
// @Summary Get Supplier
// @Description Fetch a supplier by uuid
// @Tags Suppliers
// @Produce json
// @Param uuid path string true "Supplier UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SupplierDTO} "Supplier"
// @Failure 404 {object} dto.APIResponse "Supplier not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/suppliers/{uuid} [get]
func (h *SupplierHandler) Get(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.supplierFlow.GetSupplier(h.createRequestContext(c, "/api/v1/suppliers/{uuid}"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsSupplierNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Supplier not found", "SUPPLIER_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch supplier", "SUPPLIER_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Supplier retrieved", result)
}

// List returns the workshop's suppliers
// @Summary List Suppliers
// @Description List the workshop's suppliers
// @Tags Suppliers
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListSuppliersResponse} "Suppliers"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/suppliers [get]
func (h *SupplierHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	page, pageSize := parsePagination(c)

	result, err := h.supplierFlow.ListSuppliers(h.createRequestContext(c, "/api/v1/suppliers"), workshopID, page, pageSize)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list suppliers", "SUPPLIER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Suppliers retrieved", result)
}

func (h *SupplierHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
