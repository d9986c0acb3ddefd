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

// CounterHandlerInterface defines the contract for reference number counter handlers
type CounterHandlerInterface interface {
	List(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Allocate(c fiber.Ctx) error
}

// CounterHandler handles reference number counter HTTP requests
type CounterHandler struct {
	counterFlow businessflow.CounterFlow
	validator   *validator.Validate
}

func (h *CounterHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CounterHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewCounterHandler creates a new counter handler
func NewCounterHandler(counterFlow businessflow.CounterFlow) *CounterHandler {
	return &CounterHandler{
		counterFlow: counterFlow,
		validator:   validator.New(),
	}
}

// List returns the workshop's counters
// @Summary List Counters
// @Description List the workshop's reference number counters with their next numbers
// @Tags Counters
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListCountersResponse} "Counters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/counters [get]
func (h *CounterHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.counterFlow.ListCounters(h.createRequestContext(c, "/api/v1/counters"), workshopID)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list counters", "COUNTER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Counters retrieved", result)
}

// Update changes a counter's formatting settings
// @Summary Update Counter
// @Description Change a counter's prefix, separator, pad length or active flag. The running value is never edited.
// @Tags Counters
// @Accept json
// @Produce json
// @Param code path string true "Counter code"
// @Param request body dto.UpdateCounterRequest true "Formatting fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CounterDTO} "Counter updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Counter not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/counters/{code} [put]
func (h *CounterHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateCounterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}
	req.WorkshopID = workshopID
	req.Code = c.Params("code")

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.counterFlow.UpdateCounter(h.createRequestContext(c, "/api/v1/counters/{code}"), &req, metadata)
	if err != nil {
		if businessflow.IsCounterNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Counter not found", "COUNTER_NOT_FOUND", nil)
		}
		if businessflow.IsCounterCodeInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid counter code", "COUNTER_CODE_INVALID", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update counter", "COUNTER_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Counter updated", result)
}

// Allocate mints the next reference number for an arbitrary counter code
// @Summary Allocate Reference Number
// @Description Atomically mint the next reference number for a counter, creating the counter on first use
// @Tags Counters
// @Accept json
// @Produce json
// @Param request body dto.AllocateCounterRequest true "Counter code and optional formatting"
// @Success 201 {object} dto.APIResponse{data=dto.AllocateCounterResponse} "Reference number minted"
// @Failure 400 {object} dto.APIResponse "Invalid counter code"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/counters/allocate [post]
func (h *CounterHandler) Allocate(c fiber.Ctx) error {
	var req dto.AllocateCounterRequest
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

	result, err := h.counterFlow.Allocate(h.createRequestContext(c, "/api/v1/counters/allocate"), &req, metadata)
	if err != nil {
		if businessflow.IsCounterCodeInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid counter code", "COUNTER_CODE_INVALID", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to allocate reference number", "COUNTER_ALLOCATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Reference number minted", result)
}

func (h *CounterHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
