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

// InventoryHandlerInterface defines the contract for parts and stock document handlers
type InventoryHandlerInterface interface {
	CreateItem(c fiber.Ctx) error
	UpdateItem(c fiber.Ctx) error
	GetItem(c fiber.Ctx) error
	ListItems(c fiber.Ctx) error
	CreateReceivingNote(c fiber.Ctx) error
	CreateIssueNote(c fiber.Ctx) error
	ListStockDocuments(c fiber.Ctx) error
}

// InventoryHandler handles parts catalog and stock movement HTTP requests
type InventoryHandler struct {
	inventoryFlow businessflow.InventoryFlow
	validator     *validator.Validate
}

func (h *InventoryHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *InventoryHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryFlow businessflow.InventoryFlow) *InventoryHandler {
	return &InventoryHandler{
		inventoryFlow: inventoryFlow,
		validator:     validator.New(),
	}
}

// CreateItem adds a part to the catalog
// @Summary Create Inventory Item
// @Description Add a new part to the workshop's catalog
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateInventoryItemRequest true "Part details"
// @Success 201 {object} dto.APIResponse{data=dto.InventoryItemDTO} "Item created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "SKU already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/inventory/items [post]
func (h *InventoryHandler) CreateItem(c fiber.Ctx) error {
	var req dto.CreateInventoryItemRequest
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

	result, err := h.inventoryFlow.CreateItem(h.createRequestContext(c, "/api/v1/inventory/items"), &req, metadata)
	if err != nil {
		if businessflow.IsSKUAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "SKU already exists", "SKU_EXISTS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create item", "ITEM_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Item created", result)
}

// UpdateItem changes a part's details
// @Summary Update Inventory Item
// @Description Update an existing part
// @Tags Inventory
// @Accept json
// @Produce json
// @Param uuid path string true "Item UUID"
// @Param request body dto.UpdateInventoryItemRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.InventoryItemDTO} "Item updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Item not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/inventory/items/{uuid} [put]
func (h *InventoryHandler) UpdateItem(c fiber.Ctx) error {
	var req dto.UpdateInventoryItemRequest
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

	result, err := h.inventoryFlow.UpdateItem(h.createRequestContext(c, "/api/v1/inventory/items/{uuid}"), &req, metadata)
	if err != nil {
		if businessflow.IsItemNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Item not found", "ITEM_NOT_FOUND", nil)
		}
		if businessflow.IsSKUAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "SKU already exists", "SKU_EXISTS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update item", "ITEM_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Item updated", result)
}

// GetItem returns one part
// @Summary Get Inventory Item
// @Description Fetch a part by uuid
// @Tags Inventory
// @Produce json
// @Param uuid path string true "Item UUID"
// @Success 200 {object} dto.APIResponse{data=dto.InventoryItemDTO} "Item"
// @Failure 404 {object} dto.APIResponse "Item not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/inventory/items/{uuid} [get]
func (h *InventoryHandler) GetItem(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.inventoryFlow.GetItem(h.createRequestContext(c, "/api/v1/inventory/items/{uuid}"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsItemNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Item not found", "ITEM_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch item", "ITEM_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Item retrieved", result)
}

// ListItems returns the parts catalog
// @Summary List Inventory Items
// @Description List the workshop's parts
// @Tags Inventory
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListInventoryItemsResponse} "Items"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/inventory/items [get]
func (h *InventoryHandler) ListItems(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListInventoryItemsRequest{
		WorkshopID: workshopID,
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.inventoryFlow.ListItems(h.createRequestContext(c, "/api/v1/inventory/items"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list items", "ITEM_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Items retrieved", result)
}

// CreateReceivingNote records parts received into stock
// @Summary Create Receiving Note
// @Description Record a goods receiving note, increasing stock and minting its GRN number
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateReceivingNoteRequest true "Receiving note details"
// @Success 201 {object} dto.APIResponse{data=dto.StockDocumentResponse} "Receiving note created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Supplier or item not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/inventory/receiving-notes [post]
func (h *InventoryHandler) CreateReceivingNote(c fiber.Ctx) error {
	var req dto.CreateReceivingNoteRequest
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

	result, err := h.inventoryFlow.CreateReceivingNote(h.createRequestContext(c, "/api/v1/inventory/receiving-notes"), &req, metadata)
	if err != nil {
		if businessflow.IsSupplierNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Supplier not found", "SUPPLIER_NOT_FOUND", nil)
		}
		if businessflow.IsItemNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Item not found", "ITEM_NOT_FOUND", nil)
		}
		if businessflow.IsStockLinesRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one line is required", "STOCK_LINES_REQUIRED", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create receiving note", "RECEIVING_NOTE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Receiving note created", result)
}

// CreateIssueNote records parts issued out of stock
// @Summary Create Issue Note
// @Description Record a stock issue note, decreasing stock and minting its ISN number
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateIssueNoteRequest true "Issue note details"
// @Success 201 {object} dto.APIResponse{data=dto.StockDocumentResponse} "Issue note created"
// @Failure 400 {object} dto.APIResponse "Insufficient stock"
// @Failure 404 {object} dto.APIResponse "Item not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/inventory/issue-notes [post]
func (h *InventoryHandler) CreateIssueNote(c fiber.Ctx) error {
	var req dto.CreateIssueNoteRequest
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

	result, err := h.inventoryFlow.CreateIssueNote(h.createRequestContext(c, "/api/v1/inventory/issue-notes"), &req, metadata)
	if err != nil {
		if businessflow.IsItemNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Item not found", "ITEM_NOT_FOUND", nil)
		}
		if businessflow.IsInsufficientStock(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Insufficient stock", "INSUFFICIENT_STOCK", nil)
		}
		if businessflow.IsStockLinesRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one line is required", "STOCK_LINES_REQUIRED", nil)
		}
		if businessflow.IsJobCardNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Job card not found", "JOB_CARD_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create issue note", "ISSUE_NOTE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Issue note created", result)
}

// ListStockDocuments returns the workshop's stock documents
// @Summary List Stock Documents
// @Description List receiving and issue notes, optionally filtered by kind
// @Tags Inventory
// @Produce json
// @Param kind query string false "receiving or issue"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListStockDocumentsResponse} "Stock documents"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/inventory/stock-documents [get]
func (h *InventoryHandler) ListStockDocuments(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	page, pageSize := parsePagination(c)
	req := dto.ListStockDocumentsRequest{
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

	result, err := h.inventoryFlow.ListStockDocuments(h.createRequestContext(c, "/api/v1/inventory/stock-documents"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list stock documents", "STOCK_DOCUMENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Stock documents retrieved", result)
}

func (h *InventoryHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
