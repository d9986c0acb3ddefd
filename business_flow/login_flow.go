// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/app/services"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"github.com/pitline/pitline/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles staff authentication operations
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, request *dto.LogoutRequest, metadata *ClientMetadata) error
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo       repository.UserRepository
	workshopRepo   repository.WorkshopRepository
	auditRepo      repository.AuditLogRepository
	tokenService   services.TokenService
	accessTokenTTL int
	db             *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.UserRepository,
	workshopRepo repository.WorkshopRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	accessTokenTTLSeconds int,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		userRepo:       userRepo,
		workshopRepo:   workshopRepo,
		auditRepo:      auditRepo,
		tokenService:   tokenService,
		accessTokenTTL: accessTokenTTLSeconds,
		db:             db,
	}
}

// Login authenticates a staff user with email and password
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	var user *models.User

	resp, err := lf.withLoginTransaction(ctx, func(ctx context.Context) (*dto.LoginResponse, error) {
		var err error
		user, err = lf.userRepo.ByEmail(ctx, request.Email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}

		// Check if account is active
		if !utils.IsTrue(user.IsActive) {
			return nil, ErrAccountInactive
		}

		// The tenant itself may have been deactivated by the platform
		workshop, err := lf.workshopRepo.ByID(ctx, user.WorkshopID)
		if err != nil {
			return nil, err
		}
		if workshop == nil {
			return nil, ErrWorkshopNotFound
		}
		if !utils.IsTrue(workshop.IsActive) {
			return nil, ErrWorkshopInactive
		}

		// Verify password
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		accessToken, refreshToken, err := lf.tokenService.GenerateTokens(user.ID, user.WorkshopID)
		if err != nil {
			return nil, err
		}

		if err := lf.userRepo.UpdateLastLogin(ctx, user.ID, utils.UTCNow()); err != nil {
			return nil, err
		}

		expiresAt := utils.UTCNowAdd(time.Duration(lf.accessTokenTTL)*time.Second)

		return &dto.LoginResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    lf.accessTokenTTL,
			ExpiresAt:    expiresAt,
			User:         ToUserInfo(*user),
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		_ = lf.logLoginAttempt(ctx, user, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("User logged in successfully: %d", resp.User.ID)
	_ = lf.logLoginAttempt(ctx, user, models.AuditActionLoginSuccessful, msg, true, nil, metadata)

	return resp, nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair
func (lf *LoginFlowImpl) RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error) {
	accessToken, refreshToken, err := lf.tokenService.RefreshToken(request.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}

	expiresAt := utils.UTCNowAdd(time.Duration(lf.accessTokenTTL)*time.Second)

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    lf.accessTokenTTL,
		ExpiresAt:    expiresAt,
	}, nil
}

// Logout revokes the presented refresh token
func (lf *LoginFlowImpl) Logout(ctx context.Context, request *dto.LogoutRequest, metadata *ClientMetadata) error {
	if err := lf.tokenService.RevokeToken(request.RefreshToken); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}
	return nil
}

func (lf *LoginFlowImpl) logLoginAttempt(ctx context.Context, user *models.User, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	var userID *uint
	var workshopID *uint
	if user != nil {
		userID = &user.ID
		workshopID = &user.WorkshopID
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		WorkshopID:   workshopID,
		UserID:       userID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return lf.auditRepo.Save(ctx, audit)
}

func (lf *LoginFlowImpl) withLoginTransaction(ctx context.Context, fn func(context.Context) (*dto.LoginResponse, error)) (*dto.LoginResponse, error) {
	var result *dto.LoginResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
