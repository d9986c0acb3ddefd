package dto

import (
	"time"
)

// AdminCaptchaResponse represents a generated rotate captcha challenge
type AdminCaptchaResponse struct {
	ChallengeID string `json:"challenge_id"`
	MasterImage string `json:"master_image"`
	ThumbImage  string `json:"thumb_image"`
}

// AdminLoginRequest represents the request payload for admin login
type AdminLoginRequest struct {
	Username     string  `json:"username" validate:"required,min=3,max=255"`
	Password     string  `json:"password" validate:"required,min=8,max=100"`
	ChallengeID  string  `json:"challenge_id" validate:"required"`
	CaptchaAngle float64 `json:"captcha_angle" validate:"required"`
}

// AdminLoginResponse represents the successful admin login response
type AdminLoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresIn    int       `json:"expires_in" example:"3600"`
	ExpiresAt    time.Time `json:"expires_at"`
	Username     string    `json:"username"`
}

// AdminCreateWorkshopRequest represents the request to onboard a workshop
type AdminCreateWorkshopRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address      string `json:"address,omitempty" validate:"omitempty,max=500"`
	CurrencyCode string `json:"currency_code,omitempty" validate:"omitempty,len=3"`

	OwnerFirstName string `json:"owner_first_name" validate:"required,min=1,max=100"`
	OwnerLastName  string `json:"owner_last_name" validate:"required,min=1,max=100"`
	OwnerEmail     string `json:"owner_email" validate:"required,email,max=255"`
	OwnerPassword  string `json:"owner_password" validate:"required,min=8,max=100"`
}

// AdminCreateWorkshopResponse represents the response after onboarding
type AdminCreateWorkshopResponse struct {
	WorkshopUUID string `json:"workshop_uuid"`
	OwnerUUID    string `json:"owner_uuid"`
	CreatedAt    string `json:"created_at"`
}

// AdminListWorkshopsRequest represents the request to list workshops
type AdminListWorkshopsRequest struct {
	Page     int `json:"-" validate:"omitempty,min=1"`
	PageSize int `json:"-" validate:"omitempty,min=1,max=100"`
}

// WorkshopDTO represents a workshop in admin responses
type WorkshopDTO struct {
	ID           uint   `json:"id"`
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	CurrencyCode string `json:"currency_code"`
	IsActive     *bool  `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

// AdminListWorkshopsResponse represents the paginated workshop list
type AdminListWorkshopsResponse struct {
	Items []WorkshopDTO `json:"items"`
	Total int64         `json:"total"`
}
