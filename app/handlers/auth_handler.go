// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/pitline/pitline/app/dto"
	businessflow "github.com/pitline/pitline/business_flow"
)

// AuthHandlerInterface defines the contract for staff authentication handlers
type AuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
}

// AuthHandler handles staff authentication HTTP requests
type AuthHandler struct {
	loginFlow businessflow.LoginFlow
	validator *validator.Validate
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAuthHandler creates a new staff authentication handler
func NewAuthHandler(loginFlow businessflow.LoginFlow) *AuthHandler {
	return &AuthHandler{
		loginFlow: loginFlow,
		validator: validator.New(),
	}
}

// Login handles staff authentication
// @Summary Staff Login
// @Description Authenticate a workshop staff member with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful with tokens"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Authentication failed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
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

	result, err := h.loginFlow.Login(h.createRequestContext(c, "/api/v1/auth/login"), &req, metadata)
	if err != nil {
		if businessflow.IsUserNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}
		if businessflow.IsWorkshopNotFound(err) || businessflow.IsWorkshopInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Workshop is inactive", "WORKSHOP_INACTIVE", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// RefreshToken exchanges a refresh token for a fresh token pair
// @Summary Refresh Tokens
// @Description Exchange a valid refresh token for new access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.RefreshTokenResponse} "Tokens refreshed"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Invalid or expired refresh token"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
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

	result, err := h.loginFlow.RefreshToken(h.createRequestContext(c, "/api/v1/auth/refresh"), &req, metadata)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", "TOKEN_REFRESH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tokens refreshed", result)
}

// Logout revokes the caller's tokens
// @Summary Logout
// @Description Revoke the current access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LogoutRequest true "Refresh token to revoke"
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	var req dto.LogoutRequest
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

	if err := h.loginFlow.Logout(h.createRequestContext(c, "/api/v1/auth/logout"), &req, metadata); err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Logged out", nil)
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func (h *AuthHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, businessflow.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
