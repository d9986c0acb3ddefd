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

// AuditHandlerInterface defines the contract for audit log handlers
type AuditHandlerInterface interface {
	List(c fiber.Ctx) error
}

// AuditHandler handles audit trail HTTP requests
type AuditHandler struct {
	auditFlow businessflow.AuditFlow
	validator *validator.Validate
}

func (h *AuditHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuditHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditFlow businessflow.AuditFlow) *AuditHandler {
	return &AuditHandler{
		auditFlow: auditFlow,
		validator: validator.New(),
	}
}

// List returns the workshop's audit trail
// @Summary List Audit Logs
// @Description List the workshop's audit trail, optionally filtered by action
// @Tags Audit
// @Produce json
// @Param action query string false "Action filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListAuditLogsResponse} "Audit logs"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/audit-logs [get]
func (h *AuditHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListAuditLogsRequest{
		WorkshopID: workshopID,
		Page:       page,
		PageSize:   pageSize,
	}
	if v := c.Query("action"); v != "" {
		req.Action = &v
	}

	result, err := h.auditFlow.ListAuditLogs(h.createRequestContext(c, "/api/v1/audit-logs"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list audit logs", "AUDIT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Audit logs retrieved", result)
}

func (h *AuditHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
