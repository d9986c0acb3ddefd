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

// VehicleHandlerInterface defines the contract for vehicle handlers
type VehicleHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	ListForCustomer(c fiber.Ctx) error
}

// VehicleHandler handles vehicle HTTP requests
type VehicleHandler struct {
	vehicleFlow businessflow.VehicleFlow
	validator   *validator.Validate
}

func (h *VehicleHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *VehicleHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicleFlow businessflow.VehicleFlow) *VehicleHandler {
	return &VehicleHandler{
		vehicleFlow: vehicleFlow,
		validator:   validator.New(),
	}
}

// Create registers a vehicle under a customer
// @Summary Create Vehicle
// @Description Register a new vehicle for a customer
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param request body dto.CreateVehicleRequest true "Vehicle details"
// @Success 201 {object} dto.APIResponse{data=dto.VehicleDTO} "Vehicle created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Failure 409 {object} dto.APIResponse "Plate or VIN already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/vehicles [post]
func (h *VehicleHandler) Create(c fiber.Ctx) error {
	var req dto.CreateVehicleRequest
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

	result, err := h.vehicleFlow.CreateVehicle(h.createRequestContext(c, "/api/v1/vehicles"), &req, metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsPlateAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Plate number already exists", "PLATE_EXISTS", nil)
		}
		if businessflow.IsVINAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "VIN already exists", "VIN_EXISTS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create vehicle", "VEHICLE_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Vehicle created", result)
}

// Update changes a vehicle's details
// @Summary Update Vehicle
// @Description Update an existing vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param uuid path string true "Vehicle UUID"
// @Param request body dto.UpdateVehicleRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.VehicleDTO} "Vehicle updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Vehicle not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/vehicles/{uuid} [put]
func (h *VehicleHandler) Update(c fiber.Ctx) error {
	var req dto.UpdateVehicleRequest
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

	result, err := h.vehicleFlow.UpdateVehicle(h.createRequestContext(c, "/api/v1/vehicles/{uuid}"), &req, metadata)
	if err != nil {
		if businessflow.IsVehicleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vehicle not found", "VEHICLE_NOT_FOUND", nil)
		}
		if businessflow.IsPlateAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Plate number already exists", "PLATE_EXISTS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update vehicle", "VEHICLE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vehicle updated", result)
}

// Get returns one vehicle
// @Summary Get Vehicle
// @Description Fetch a vehicle by uuid
// @Tags Vehicles
// @Produce json
// @Param uuid path string true "Vehicle UUID"
// @Success 200 {object} dto.APIResponse{data=dto.VehicleDTO} "Vehicle"
// @Failure 404 {object} dto.APIResponse "Vehicle not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/vehicles/{uuid} [get]
func (h *VehicleHandler) Get(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.vehicleFlow.GetVehicle(h.createRequestContext(c, "/api/v1/vehicles/{uuid}"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsVehicleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Vehicle not found", "VEHICLE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch vehicle", "VEHICLE_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vehicle retrieved", result)
}

// ListForCustomer returns all vehicles owned by one customer
// @Summary List Customer Vehicles
// @Description List the vehicles registered under a customer
// @Tags Vehicles
// @Produce json
// @Param uuid path string true "Customer UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListVehiclesResponse} "Vehicles"
// @Failure 404 {object} dto.APIResponse "Customer not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers/{uuid}/vehicles [get]
func (h *VehicleHandler) ListForCustomer(c fiber.Ctx) error {
	workshopID, ok := middleware.GetWorkshopIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop ID not found in context", "MISSING_WORKSHOP_ID", nil)
	}

	result, err := h.vehicleFlow.ListCustomerVehicles(h.createRequestContext(c, "/api/v1/customers/{uuid}/vehicles"), workshopID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list vehicles", "VEHICLE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Vehicles retrieved", result)
}

func (h *VehicleHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
