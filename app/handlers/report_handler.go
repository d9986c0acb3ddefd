package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/app/middleware"
	businessflow "github.com/pitline/pitline/business_flow"
)

// ReportHandlerInterface defines the contract for reporting handlers
type ReportHandlerInterface interface {
	Dashboard(c fiber.Ctx) error
	Revenue(c fiber.Ctx) error
	ExportInvoices(c fiber.Ctx) error
}

// ReportHandler handles dashboard and reporting HTTP requests
type ReportHandler struct {
	reportFlow businessflow.ReportFlow
	validator  *validator.Validate
}

func (h *ReportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ReportHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportFlow businessflow.ReportFlow) *ReportHandler {
	return &ReportHandler{
		reportFlow: reportFlow,
		validator:  validator.New(),
	}
}

// Dashboard returns the workshop's summary numbers
// @Summary Dashboard Summary
// @Description Return cached dashboard numbers: open job cards, outstanding balances, stock value and monthly revenue
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardSummaryResponse} "Summary"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.reportFlow.DashboardSummary(h.createRequestContext(c, "/api/v1/reports/dashboard"), workshopID)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build dashboard", "DASHBOARD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Dashboard retrieved", result)
}

// Revenue returns revenue aggregated per month
// @Summary Revenue Report
// @Description Return issued invoice totals per month for the trailing window
// @Tags Reports
// @Produce json
// @Param months query int false "Window in months, 1 to 36"
// @Success 200 {object} dto.APIResponse{data=dto.RevenueReportResponse} "Revenue per month"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reports/revenue [get]
func (h *ReportHandler) Revenue(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	months, _ := strconv.Atoi(c.Query("months", "12"))
	req := dto.RevenueReportRequest{
		WorkshopID: workshopID,
		Months:     months,
	}

	result, err := h.reportFlow.RevenueReport(h.createRequestContext(c, "/api/v1/reports/revenue"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build revenue report", "REVENUE_REPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Revenue report retrieved", result)
}

// ExportInvoices streams an XLSX export of the workshop's invoices
// @Summary Export Invoices
// @Description Generate an XLSX spreadsheet of invoices, optionally filtered by kind and date range
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param kind query string false "receivable or payable"
// @Param from query string false "RFC3339 start date"
// @Param to query string false "RFC3339 end date"
// @Success 200 {string} string "XLSX file"
// @Failure 400 {object} dto.APIResponse "Invalid date range"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reports/invoices/export [get]
func (h *ReportHandler) ExportInvoices(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	req := dto.ExportInvoicesRequest{WorkshopID: workshopID}
	if v := c.Query("kind"); v != "" {
		req.Kind = &v
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid from date", "INVALID_DATE", nil)
		}
		req.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid to date", "INVALID_DATE", nil)
		}
		req.To = &t
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.reportFlow.ExportInvoices(h.createRequestContext(c, "/api/v1/reports/invoices/export"), &req)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date is after end date", "INVALID_DATE_RANGE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export invoices", "EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", result.ContentType)
	c.Set("Content-Disposition", "attachment; filename="+result.Filename)
	return c.Send(result.Data)
}

func (h *ReportHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
