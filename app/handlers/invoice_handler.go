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

// InvoiceHandlerInterface defines the contract for invoice handlers
type InvoiceHandlerInterface interface {
	Issue(c fiber.Ctx) error
	RecordPayable(c fiber.Ctx) error
	Void(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceFlow businessflow.InvoiceFlow
	validator   *validator.Validate
}

func (h *InvoiceHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *InvoiceHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceFlow businessflow.InvoiceFlow) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceFlow: invoiceFlow,
		validator:   validator.New(),
	}
}

// Issue creates a receivable invoice from a completed job card
// @Summary Issue Invoice
// @Description Issue a receivable invoice for a completed job card, minting its invoice number
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.IssueInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.APIResponse{data=dto.InvoiceResponse} "Invoice issued"
// @Failure 400 {object} dto.APIResponse "Job card not completed"
// @Failure 404 {object} dto.APIResponse "Job card not found"
// @Failure 409 {object} dto.APIResponse "Job card already invoiced"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/invoices [post]
func (h *InvoiceHandler) Issue(c fiber.Ctx) error {
	var req dto.IssueInvoiceRequest
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

	result, err := h.invoiceFlow.IssueInvoice(h.createRequestContext(c, "/api/v1/invoices"), &req, metadata)
	if err != nil {
		if businessflow.IsJobCardNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Job card not found", "JOB_CARD_NOT_FOUND", nil)
		}
		if businessflow.IsJobCardNotCompleted(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Job card is not completed", "JOB_CARD_NOT_COMPLETED", nil)
		}
		if businessflow.IsJobCardAlreadyInvoiced(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Job card already invoiced", "JOB_CARD_ALREADY_INVOICED", nil)
		}
		if businessflow.IsCurrencyNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Currency not found", "CURRENCY_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to issue invoice", "INVOICE_ISSUE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Invoice issued", result)
}

// RecordPayable records a supplier bill
// @Summary Record Payable Invoice
// @Description Record a payable invoice received from a supplier
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.RecordPayableInvoiceRequest true "Supplier bill details"
// @Success 201 {object} dto.APIResponse{data=dto.InvoiceResponse} "Invoice recorded"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Supplier not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/invoices/payable [post]
func (h *InvoiceHandler) RecordPayable(c fiber.Ctx) error {
	var req dto.RecordPayableInvoiceRequest
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

	result, err := h.invoiceFlow.RecordPayableInvoice(h.createRequestContext(c, "/api/v1/invoices/payable"), &req, metadata)
	if err != nil {
		if businessflow.IsSupplierNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Supplier not found", "SUPPLIER_NOT_FOUND", nil)
		}
		if businessflow.IsCurrencyNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Currency not found", "CURRENCY_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record invoice", "INVOICE_RECORD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Invoice recorded", result)
}

// Void cancels an unpaid invoice
// @Summary Void Invoice
// @Description Void an invoice that has no receipts or payments applied
// @Tags Invoices
// @Produce json
// @Param uuid path string true "Invoice UUID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice voided"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Failure 409 {object} dto.APIResponse "Invoice already void or has payments"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/invoices/{uuid}/void [post]
func (h *InvoiceHandler) Void(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}

	req := dto.VoidInvoiceRequest{
		UUID:       c.Params("uuid"),
		WorkshopID: workshopID,
		UserID:     userID,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.invoiceFlow.VoidInvoice(h.createRequestContext(c, "/api/v1/invoices/{uuid}/void"), &req, metadata)
	if err != nil {
		if businessflow.IsInvoiceNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", "INVOICE_NOT_FOUND", nil)
		}
		if businessflow.IsInvoiceAlreadyVoid(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Invoice is already void", "INVOICE_ALREADY_VOID", nil)
		}
		if businessflow.IsInvoiceHasPayments(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Invoice has payments applied", "INVOICE_HAS_PAYMENTS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to void invoice", "INVOICE_VOID_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Invoice voided", result)
}

// Get returns one invoice with its lines
// @Summary Get Invoice
// @Description Fetch an invoice by uuid
// @Tags Invoices
// @Produce json
// @Param uuid path string true "Invoice UUID"
// @Success 200 {object} dto.APIResponse{data=dto.InvoiceDTO} "Invoice"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/invoices/{uuid} [get]
func (h *InvoiceHandler) Get(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.invoiceFlow.GetInvoice(h.createRequestContext(c, "/api/v1/invoices/{uuid}"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsInvoiceNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", "INVOICE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch invoice", "INVOICE_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Invoice retrieved", result)
}

// List returns the workshop's invoices
// @Summary List Invoices
// @Description List invoices, optionally filtered by kind
// @Tags Invoices
// @Produce json
// @Param kind query string false "receivable or payable"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListInvoicesResponse} "Invoices"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListInvoicesRequest{
		WorkshopID: workshopID,
		Page:       page,
		PageSize:   pageSize,
	}
	if v := c.Query("kind"); v != "" {
		req.Kind = &v
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.invoiceFlow.ListInvoices(h.createRequestContext(c, "/api/v1/invoices"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list invoices", "INVOICE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Invoices retrieved", result)
}

func (h *InvoiceHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
