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

// CurrencyHandlerInterface defines the contract for currency handlers
type CurrencyHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// CurrencyHandler handles currency HTTP requests
type CurrencyHandler struct {
	currencyFlow businessflow.CurrencyFlow
	validator    *validator.Validate
}

func (h *CurrencyHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CurrencyHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(currencyFlow businessflow.CurrencyFlow) *CurrencyHandler {
	return &CurrencyHandler{
		currencyFlow: currencyFlow,
		validator:    validator.New(),
	}
}

// Create registers a currency for the workshop
// @Summary Create Currency
// @Description Register a currency with its exchange rate
// @Tags Currencies
// @Accept json
// @Produce json
// @Param request body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.APIResponse{data=dto.CurrencyDTO} "Currency created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Currency code already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/currencies [post]
func (h *CurrencyHandler) Create(c fiber.Ctx) error {
	var req dto.CreateCurrencyRequest
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

	result, err := h.currencyFlow.CreateCurrency(h.createRequestContext(c, "/api/v1/currencies"), &req, metadata)
	if err != nil {
		if businessflow.IsCurrencyCodeExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Currency code already exists", "CURRENCY_CODE_EXISTS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create currency", "CURRENCY_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Currency created", result)
}

// Update changes a currency's rate or details
// @Summary Update Currency
// @Description Update a currency's name, symbol, exchange rate or active flag
// @Tags Currencies
// @Accept json
// @Produce json
// @Param code path string true "Currency code"
// @Param request body dto.UpdateCurrencyRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CurrencyDTO} "Currency updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Currency not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/currencies/{code} [put]
func (h *CurrencyHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateCurrencyRequest
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

	result, err := h.currencyFlow.UpdateCurrency(h.createRequestContext(c, "/api/v1/currencies/{code}"), &req, metadata)
	if err != nil {
		if businessflow.IsCurrencyNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Currency not found", "CURRENCY_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update currency", "CURRENCY_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Currency updated", result)
}

// List returns the workshop's currencies
// @Summary List Currencies
// @Description List the workshop's registered currencies
// @Tags Currencies
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListCurrenciesResponse} "Currencies"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/currencies [get]
func (h *CurrencyHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.currencyFlow.ListCurrencies(h.createRequestContext(c, "/api/v1/currencies"), workshopID)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list currencies", "CURRENCY_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Currencies retrieved", result)
}

func (h *CurrencyHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
