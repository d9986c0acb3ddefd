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

// SettlementHandlerInterface defines the contract for receipt and payment handlers
type SettlementHandlerInterface interface {
	RecordReceipt(c fiber.Ctx) error
	ListReceipts(c fiber.Ctx) error
	RecordPayment(c fiber.Ctx) error
	ListPayments(c fiber.Ctx) error
}

// SettlementHandler handles money received against receivable invoices and
// money paid against supplier bills
type SettlementHandler struct {
	receiptFlow businessflow.ReceiptFlow
	paymentFlow businessflow.PaymentFlow
	validator   *validator.Validate
}

func (h *SettlementHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SettlementHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(receiptFlow businessflow.ReceiptFlow, paymentFlow businessflow.PaymentFlow) *SettlementHandler {
	return &SettlementHandler{
		receiptFlow: receiptFlow,
		paymentFlow: paymentFlow,
		validator:   validator.New(),
	}
}

// RecordReceipt applies money received to a receivable invoice
// @Summary Record Receipt
// @Description Record money received against a receivable invoice, minting its receipt number
// @Tags Settlements
// @Accept json
// @Produce json
// @Param request body dto.RecordReceiptRequest true "Receipt details"
// @Success 201 {object} dto.APIResponse{data=dto.RecordReceiptResponse} "Receipt recorded"
// @Failure 400 {object} dto.APIResponse "Amount exceeds outstanding"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/receipts [post]
func (h *SettlementHandler) RecordReceipt(c fiber.Ctx) error {
	var req dto.RecordReceiptRequest
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

	result, err := h.receiptFlow.RecordReceipt(h.createRequestContext(c, "/api/v1/receipts"), &req, metadata)
	if err != nil {
		return h.settlementErrorResponse(c, err, "Failed to record receipt", "RECEIPT_RECORD_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Receipt recorded", result)
}

// ListReceipts returns the receipts applied to one invoice
// @Summary List Invoice Receipts
// @Description List the receipts applied to a receivable invoice
// @Tags Settlements
// @Produce json
// @Param uuid path string true "Invoice UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListReceiptsResponse} "Receipts"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/invoices/{uuid}/receipts [get]
func (h *SettlementHandler) ListReceipts(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.receiptFlow.ListInvoiceReceipts(h.createRequestContext(c, "/api/v1/invoices/{uuid}/receipts"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsInvoiceNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", "INVOICE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list receipts", "RECEIPT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Receipts retrieved", result)
}

// RecordPayment applies money paid to a supplier bill
// @Summary Record Payment
// @Description Record money paid against a payable invoice, minting its payment voucher number
// @Tags Settlements
// @Accept json
// @Produce json
// @Param request body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.APIResponse{data=dto.RecordPaymentResponse} "Payment recorded"
// @Failure 400 {object} dto.APIResponse "Amount exceeds outstanding"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/payments [post]
func (h *SettlementHandler) RecordPayment(c fiber.Ctx) error {
	var req dto.RecordPaymentRequest
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

	result, err := h.paymentFlow.RecordPayment(h.createRequestContext(c, "/api/v1/payments"), &req, metadata)
	if err != nil {
		return h.settlementErrorResponse(c, err, "Failed to record payment", "PAYMENT_RECORD_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Payment recorded", result)
}

// ListPayments returns the payments applied to one invoice
// @Summary List Invoice Payments
// @Description List the payments applied to a payable invoice
// @Tags Settlements
// @Produce json
// @Param uuid path string true "Invoice UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListPaymentsResponse} "Payments"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/invoices/{uuid}/payments [get]
func (h *SettlementHandler) ListPayments(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.paymentFlow.ListInvoicePayments(h.createRequestContext(c, "/api/v1/invoices/{uuid}/payments"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsInvoiceNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", "INVOICE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list payments", "PAYMENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Payments retrieved", result)
}

// settlementErrorResponse maps the shared settlement errors, falling back to 500.
func (h *SettlementHandler) settlementErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if businessflow.IsInvoiceNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Invoice not found", "INVOICE_NOT_FOUND", nil)
	}
	if businessflow.IsInvoiceNotPayable(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invoice cannot accept payments", "INVOICE_NOT_PAYABLE", nil)
	}
	if businessflow.IsInvoiceAlreadyVoid(err) {
		return h.ErrorResponse(c, fiber.StatusConflict, "Invoice is void", "INVOICE_ALREADY_VOID", nil)
	}
	if businessflow.IsAmountTooLow(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Amount must be positive", "AMOUNT_TOO_LOW", nil)
	}
	if businessflow.IsAmountExceedsOutstanding(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Amount exceeds outstanding balance", "AMOUNT_EXCEEDS_OUTSTANDING", nil)
	}
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func (h *SettlementHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
