package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/pitline/pitline/app/dto"
	businessflow "github.com/pitline/pitline/business_flow"
)

// AdminHandlerInterface defines the contract for platform admin handlers
type AdminHandlerInterface interface {
	InitCaptcha(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	CreateWorkshop(c fiber.Ctx) error
	ListWorkshops(c fiber.Ctx) error
}

// AdminHandler handles platform admin HTTP requests
type AdminHandler struct {
	adminFlow businessflow.AdminAuthFlow
	validator *validator.Validate
}

func (h *AdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAdminHandler creates a new platform admin handler
func NewAdminHandler(adminFlow businessflow.AdminAuthFlow) *AdminHandler {
	return &AdminHandler{
		adminFlow: adminFlow,
		validator: validator.New(),
	}
}

// InitCaptcha generates a rotate captcha challenge for the admin login page
// @Summary Init Admin Captcha
// @Description Generate a rotate captcha challenge required for admin login
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminCaptchaResponse} "Challenge generated"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/captcha/init [post]
func (h *AdminHandler) InitCaptcha(c fiber.Ctx) error {
	result, err := h.adminFlow.InitCaptcha(h.createRequestContext(c, "/api/v1/admin/captcha/init"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate captcha", "CAPTCHA_INIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Captcha generated", result)
}

// Login handles platform admin authentication
// @Summary Admin Login
// @Description Authenticate a platform admin with username, password and captcha
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminLoginResponse} "Login successful with tokens"
// @Failure 400 {object} dto.APIResponse "Validation or captcha error"
// @Failure 401 {object} dto.APIResponse "Authentication failed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/login [post]
func (h *AdminHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.adminFlow.Login(h.createRequestContext(c, "/api/v1/admin/login"), &req, metadata)
	if err != nil {
		if businessflow.IsCaptchaFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Captcha verification failed", "CAPTCHA_FAILED", nil)
		}
		if businessflow.IsAdminNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// CreateWorkshop onboards a new workshop with its owner account
// @Summary Create Workshop
// @Description Onboard a new workshop tenant and its owner user
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.AdminCreateWorkshopRequest true "Workshop and owner details"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreateWorkshopResponse} "Workshop created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/workshops [post]
func (h *AdminHandler) CreateWorkshop(c fiber.Ctx) error {
	var req dto.AdminCreateWorkshopRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.adminFlow.CreateWorkshop(h.createRequestContext(c, "/api/v1/admin/workshops"), &req, metadata)
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Email already exists", "EMAIL_EXISTS", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create workshop", "WORKSHOP_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Workshop created", result)
}

// ListWorkshops returns the paginated workshop list
// @Summary List Workshops
// @Description List all workshop tenants
// @Tags Admin
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.AdminListWorkshopsResponse} "Workshops"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/workshops [get]
func (h *AdminHandler) ListWorkshops(c fiber.Ctx) error {
	page, pageSize := parsePagination(c)
	req := dto.AdminListWorkshopsRequest{
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.adminFlow.ListWorkshops(h.createRequestContext(c, "/api/v1/admin/workshops"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list workshops", "WORKSHOP_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Workshops retrieved", result)
}

func (h *AdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
