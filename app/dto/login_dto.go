// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"time"
)

// LoginRequest represents the request payload for staff login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"advisor@pitline.io"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresIn    int       `json:"expires_in" example:"3600"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserInfo  `json:"user"`
}

// UserInfo represents staff user information returned in login responses
type UserInfo struct {
	ID         uint   `json:"id" example:"123"`
	UUID       string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	WorkshopID uint   `json:"workshop_id" example:"7"`
	Email      string `json:"email" example:"advisor@pitline.io"`
	FirstName  string `json:"first_name" example:"Dana"`
	LastName   string `json:"last_name" example:"Cole"`
	Role       string `json:"role" example:"advisor"`
	IsActive   *bool  `json:"is_active" example:"true"`
	CreatedAt  string `json:"created_at" example:"2026-01-15T10:30:00Z"`
}

// RefreshTokenRequest represents the request to exchange a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse represents the response carrying fresh tokens
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresIn    int       `json:"expires_in" example:"3600"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LogoutRequest represents the request to revoke the current tokens
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
