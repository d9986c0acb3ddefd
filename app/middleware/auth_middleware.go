// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/app/services"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates staff JWTs and stores the user and workshop IDs in
// the request context. Every tenant-scoped route sits behind this.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := extractBearerToken(c)
		if errResp != nil {
			return errResp
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("workshop_id", claims.WorkshopID)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// AdminAuthenticate validates platform-admin JWTs
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := extractBearerToken(c)
		if errResp != nil {
			return errResp
		}

		claims, err := m.tokenService.ValidateAdminToken(token)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		c.Locals("admin_id", claims.AdminID)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

func extractBearerToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Authorization header is required",
			Error:   dto.ErrorDetail{Code: "MISSING_AUTHORIZATION_HEADER"},
		})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid authorization header format. Expected 'Bearer <token>'",
			Error:   dto.ErrorDetail{Code: "INVALID_AUTHORIZATION_FORMAT"},
		})
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Access token is required",
			Error:   dto.ErrorDetail{Code: "MISSING_ACCESS_TOKEN"},
		})
	}

	return token, nil
}

func tokenErrorResponse(c fiber.Ctx, err error) error {
	var code, msg string
	if errors.Is(err, services.ErrTokenExpired) {
		code = "TOKEN_EXPIRED"
		msg = "Access token has expired"
	} else if errors.Is(err, services.ErrTokenInvalid) {
		code = "TOKEN_INVALID"
		msg = "Invalid access token"
	} else if errors.Is(err, services.ErrTokenRevoked) {
		code = "TOKEN_REVOKED"
		msg = "Access token has been revoked"
	} else {
		code = "TOKEN_VALIDATION_FAILED"
		msg = "Token validation failed"
	}

	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: msg,
		Error:   dto.ErrorDetail{Code: code},
	})
}

// GetUserIDFromContext extracts the staff user ID from the request context
func GetUserIDFromContext(c fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("user_id").(uint)
	return userID, ok
}

// GetWorkshopIDFromContext extracts the workshop ID from the request context
func GetWorkshopIDFromContext(c fiber.Ctx) (uint, bool) {
	workshopID, ok := c.Locals("workshop_id").(uint)
	return workshopID, ok
}

// GetAdminIDFromContext extracts the admin ID from the request context
func GetAdminIDFromContext(c fiber.Ctx) (uint, bool) {
	adminID, ok := c.Locals("admin_id").(uint)
	return adminID, ok
}
