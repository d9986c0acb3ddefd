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

// QuotationHandlerInterface defines the contract for quotation handlers
type QuotationHandlerInterface interface {
	Create(c fiber.Ctx) error
	ChangeStatus(c fiber.Ctx) error
	Convert(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// QuotationHandler handles quotation HTTP requests
type QuotationHandler struct {
	quotationFlow businessflow.QuotationFlow
	validator     *validator.Validate
}

func (h *QuotationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *QuotationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationFlow businessflow.QuotationFlow) *QuotationHandler {
	return &QuotationHandler{
		quotationFlow: quotationFlow,
		validator:     validator.New(),
	}
}

// Create drafts a new quotation and mints its quotation number
// @Summary Create Quotation
// @Description Draft a new quotation for a customer
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body dto.CreateQuotationRequest true "Quotation details"
// @Success 201 {object} dto.APIResponse{data=dto.CreateQuotationResponse} "Quotation created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Customer or vehicle not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/quotations [post]
func (h *QuotationHandler) Create(c fiber.Ctx) error {
	var req dto.CreateQuotationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}
	req.WorkshopID = workshopID
	req.UserID = userID

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.quotationFlow.CreateQuotation(h.createRequestContext(c, "/api/v1/quotations"), &req, metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsVehicleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vehicle not found", "VEHICLE_NOT_FOUND", nil)
		}
		if businessflow.IsVehicleOwnerMismatch(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Vehicle does not belong to customer", "VEHICLE_OWNER_MISMATCH", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create quotation", "QUOTATION_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Quotation created", result)
}

// ChangeStatus moves a quotation through its lifecycle
// @Summary Change Quotation Status
// @Description Transition a quotation to sent, accepted, rejected or expired
// @Tags Quotations
// @Accept json
// @Produce json
// @Param uuid path string true "Quotation UUID"
// @Param request body dto.ChangeQuotationStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.QuotationDTO} "Status changed"
// @Failure 400 {object} dto.APIResponse "Invalid transition"
// @Failure 404 {object} dto.APIResponse "Quotation not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/quotations/{uuid}/status [post]
func (h *QuotationHandler) ChangeStatus(c fiber.Ctx) error {
	var req dto.ChangeQuotationStatusRequest
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

	result, err := h.quotationFlow.ChangeStatus(h.createRequestContext(c, "/api/v1/quotations/{uuid}/status"), &req, metadata)
	if err != nil {
		if businessflow.IsQuotationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Quotation not found", "QUOTATION_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidStatusTransition(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status transition", "INVALID_STATUS_TRANSITION", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to change status", "QUOTATION_STATUS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Status changed", result)
}

// Convert turns an accepted quotation into a job card
// @Summary Convert Quotation
// @Description Convert an accepted quotation into a new job card, carrying its lines over
// @Tags Quotations
// @Accept json
// @Produce json
// @Param uuid path string true "Quotation UUID"
// @Param request body dto.ConvertQuotationRequest true "Conversion details"
// @Success 201 {object} dto.APIResponse{data=dto.ConvertQuotationResponse} "Job card created from quotation"
// @Failure 400 {object} dto.APIResponse "Quotation not accepted"
// @Failure 404 {object} dto.APIResponse "Quotation not found"
// @Failure 409 {object} dto.APIResponse "Quotation already converted"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/quotations/{uuid}/convert [post]
func (h *QuotationHandler) Convert(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	var req dto.ConvertQuotationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request format", "INVALID_REQUEST_FORMAT", nil)
	}
	req.UUID = c.Params("uuid")
	req.WorkshopID = workshopID
	req.UserID = userID

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.quotationFlow.ConvertToJobCard(h.createRequestContext(c, "/api/v1/quotations/{uuid}/convert"), &req, metadata)
	if err != nil {
		if businessflow.IsQuotationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Quotation not found", "QUOTATION_NOT_FOUND", nil)
		}
		if businessflow.IsQuotationNotAccepted(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Quotation is not accepted", "QUOTATION_NOT_ACCEPTED", nil)
		}
		if businessflow.IsQuotationAlreadyConverted(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Quotation already converted", "QUOTATION_ALREADY_CONVERTED", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to convert quotation", "QUOTATION_CONVERT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Quotation converted", result)
}

// Get returns one quotation with its lines
// @Summary Get Quotation
// @Description Fetch a quotation by uuid
// @Tags Quotations
// @Produce json
// @Param uuid path string true "Quotation UUID"
// @Success 200 {object} dto.APIResponse{data=dto.QuotationDTO} "Quotation"
// @Failure 404 {object} dto.APIResponse "Quotation not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/quotations/{uuid} [get]
func (h *QuotationHandler) Get(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.quotationFlow.GetQuotation(h.createRequestContext(c, "/api/v1/quotations/{uuid}"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsQuotationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Quotation not found", "QUOTATION_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch quotation", "QUOTATION_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quotation retrieved", result)
}

// List returns the workshop's quotations
// @Summary List Quotations
// @Description List the workshop's quotations
// @Tags Quotations
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListQuotationsResponse} "Quotations"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/quotations [get]
func (h *QuotationHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListQuotationsRequest{
		WorkshopID: workshopID,
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.quotationFlow.ListQuotations(h.createRequestContext(c, "/api/v1/quotations"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list quotations", "QUOTATION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Quotations retrieved", result)
}

func (h *QuotationHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
