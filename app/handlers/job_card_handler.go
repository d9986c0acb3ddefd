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

// JobCardHandlerInterface defines the contract for job card handlers
type JobCardHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	ChangeStatus(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// JobCardHandler handles job card HTTP requests
type JobCardHandler struct {
	jobCardFlow businessflow.JobCardFlow
	validator   *validator.Validate
}

func (h *JobCardHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *JobCardHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewJobCardHandler creates a new job card handler
func NewJobCardHandler(jobCardFlow businessflow.JobCardFlow) *JobCardHandler {
	return &JobCardHandler{
		jobCardFlow: jobCardFlow,
		validator:   validator.New(),
	}
}

// Create opens a new job card and mints its job card number
// @Summary Create Job Card
// @Description Open a new job card for a customer's vehicle
// @Tags JobCards
// @Accept json
// @Produce json
// @Param request body dto.CreateJobCardRequest true "Job card details"
// @Success 201 {object} dto.APIResponse{data=dto.CreateJobCardResponse} "Job card created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Customer or vehicle not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/job-cards [post]
func (h *JobCardHandler) Create(c fiber.Ctx) error {
	var req dto.CreateJobCardRequest
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

	result, err := h.jobCardFlow.CreateJobCard(h.createRequestContext(c, "/api/v1/job-cards"), &req, metadata)
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
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create job card", "JOB_CARD_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Job card created", result)
}

// Update changes a job card's editable details
// @Summary Update Job Card
// @Description Update complaint, lines and scheduling fields of an open job card
// @Tags JobCards
// @Accept json
// @Produce json
// @Param uuid path string true "Job card UUID"
// @Param request body dto.UpdateJobCardRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.JobCardDTO} "Job card updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Job card not found"
// @Failure 409 {object} dto.APIResponse "Job card already invoiced"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/job-cards/{uuid} [put]
func (h *JobCardHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateJobCardRequest
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

	result, err := h.jobCardFlow.UpdateJobCard(h.createRequestContext(c, "/api/v1/job-cards/{uuid}"), &req, metadata)
	if err != nil {
		if businessflow.IsJobCardNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Job card not found", "JOB_CARD_NOT_FOUND", nil)
		}
		if businessflow.IsJobCardAlreadyInvoiced(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Job card already invoiced", "JOB_CARD_ALREADY_INVOICED", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update job card", "JOB_CARD_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Job card updated", result)
}

// ChangeStatus moves a job card through its lifecycle
// @Summary Change Job Card Status
// @Description Transition a job card to a new lifecycle status
// @Tags JobCards
// @Accept json
// @Produce json
// @Param uuid path string true "Job card UUID"
// @Param request body dto.ChangeJobCardStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.JobCardDTO} "Status changed"
// @Failure 400 {object} dto.APIResponse "Invalid transition"
// @Failure 404 {object} dto.APIResponse "Job card not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/job-cards/{uuid}/status [post]
func (h *JobCardHandler) ChangeStatus(c fiber.Ctx) error {
	var req dto.ChangeJobCardStatusRequest
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
	req.UUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.jobCardFlow.ChangeStatus(h.createRequestContext(c, "/api/v1/job-cards/{uuid}/status"), &req, metadata)
	if err != nil {
		if businessflow.IsJobCardNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Job card not found", "JOB_CARD_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidStatusTransition(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid status transition", "INVALID_STATUS_TRANSITION", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to change status", "JOB_CARD_STATUS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Status changed", result)
}

// Get returns one job card with its lines
// @Summary Get Job Card
// @Description Fetch a job card by uuid
// @Tags JobCards
// @Produce json
// @Param uuid path string true "Job card UUID"
// @Success 200 {object} dto.APIResponse{data=dto.JobCardDTO} "Job card"
// @Failure 404 {object} dto.APIResponse "Job card not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/job-cards/{uuid} [get]
func (h *JobCardHandler) Get(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.jobCardFlow.GetJobCard(h.createRequestContext(c, "/api/v1/job-cards/{uuid}"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsJobCardNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Job card not found", "JOB_CARD_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch job card", "JOB_CARD_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Job card retrieved", result)
}

// List returns the workshop's job cards
// @Summary List Job Cards
// @Description List job cards, optionally filtered by status
// @Tags JobCards
// @Produce json
// @Param status query string false "Lifecycle status filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListJobCardsResponse} "Job cards"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/job-cards [get]
func (h *JobCardHandler) List(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListJobCardsRequest{
		WorkshopID: workshopID,
		Page:       page,
		PageSize:   pageSize,
	}
	if v := c.Query("status"); v != "" {
		req.Status = &v
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.jobCardFlow.ListJobCards(h.createRequestContext(c, "/api/v1/job-cards"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list job cards", "JOB_CARD_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Job cards retrieved", result)
}

func (h *JobCardHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
