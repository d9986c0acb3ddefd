package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/app/services"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"github.com/pitline/pitline/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminAuthFlow handles platform-admin authentication and tenant onboarding.
// Admin login sits behind a rotate captcha; the admin is the only actor who
// can create workshops.
type AdminAuthFlow interface {
	InitCaptcha(ctx context.Context) (*dto.AdminCaptchaResponse, error)
	Login(ctx context.Context, request *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
	CreateWorkshop(ctx context.Context, request *dto.AdminCreateWorkshopRequest, metadata *ClientMetadata) (*dto.AdminCreateWorkshopResponse, error)
	ListWorkshops(ctx context.Context, request *dto.AdminListWorkshopsRequest) (*dto.AdminListWorkshopsResponse, error)
}

// AdminAuthFlowImpl implements the admin authentication flow
type AdminAuthFlowImpl struct {
	adminRepo      repository.AdminRepository
	workshopRepo   repository.WorkshopRepository
	userRepo       repository.UserRepository
	auditRepo      repository.AuditLogRepository
	tokenService   services.TokenService
	captchaSvc     services.CaptchaService
	accessTokenTTL int
	db             *gorm.DB
}

// NewAdminAuthFlow creates a new admin auth flow instance
func NewAdminAuthFlow(
	adminRepo repository.AdminRepository,
	workshopRepo repository.WorkshopRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	captchaSvc services.CaptchaService,
	accessTokenTTLSeconds int,
	db *gorm.DB,
) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:      adminRepo,
		workshopRepo:   workshopRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		tokenService:   tokenService,
		captchaSvc:     captchaSvc,
		accessTokenTTL: accessTokenTTLSeconds,
		db:             db,
	}
}

// InitCaptcha generates a rotate captcha challenge for the admin login form
func (af *AdminAuthFlowImpl) InitCaptcha(ctx context.Context) (*dto.AdminCaptchaResponse, error) {
	if af.captchaSvc == nil {
		return nil, NewBusinessError("CAPTCHA_NOT_AVAILABLE", "Captcha service not available", ErrCacheNotAvailable)
	}

	ch, err := af.captchaSvc.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_INIT_FAILED", "Failed to initialize captcha", err)
	}

	return &dto.AdminCaptchaResponse{
		ChallengeID: ch.ID,
		MasterImage: ch.MasterImageBase64,
		ThumbImage:  ch.ThumbImageBase64,
	}, nil
}

// Login authenticates a platform admin. The captcha is checked before the
// credentials so the challenge is consumed either way.
func (af *AdminAuthFlowImpl) Login(ctx context.Context, request *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	if af.captchaSvc == nil || !af.captchaSvc.VerifyRotate(ctx, request.ChallengeID, request.CaptchaAngle) {
		return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha validation failed", ErrCaptchaFailed)
	}

	admin, err := af.adminRepo.ByUsername(ctx, request.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Admin login failed", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Admin login failed", ErrAdminNotFound)
	}
	if !utils.IsTrue(admin.IsActive) {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Admin login failed", ErrAccountInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(request.Password)); err != nil {
		errMsg := fmt.Sprintf("Admin login failed: %s", request.Username)
		_ = af.logAdminAction(ctx, nil, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Admin login failed", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := af.tokenService.GenerateAdminTokens(admin.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	if err := af.adminRepo.UpdateLastLogin(ctx, admin.ID, utils.UTCNow()); err != nil {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Admin login failed", err)
	}

	msg := fmt.Sprintf("Admin logged in: %s", admin.Username)
	_ = af.logAdminAction(ctx, nil, models.AuditActionLoginSuccessful, msg, true, nil, metadata)

	return &dto.AdminLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    af.accessTokenTTL,
		ExpiresAt:    utils.UTCNowAdd(time.Duration(af.accessTokenTTL) * time.Second),
		Username:     admin.Username,
	}, nil
}

// CreateWorkshop onboards a tenant together with its owner login. Counters are
// created lazily on first allocation, so onboarding seeds nothing else.
func (af *AdminAuthFlowImpl) CreateWorkshop(ctx context.Context, request *dto.AdminCreateWorkshopRequest, metadata *ClientMetadata) (*dto.AdminCreateWorkshopResponse, error) {
	var workshop *models.Workshop
	var owner *models.User

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		existing, err := af.workshopRepo.ByEmail(ctx, request.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}

		existingUser, err := af.userRepo.ByEmail(ctx, request.OwnerEmail)
		if err != nil {
			return err
		}
		if existingUser != nil {
			return ErrEmailAlreadyExists
		}

		currencyCode := request.CurrencyCode
		if currencyCode == "" {
			currencyCode = utils.DefaultCurrencyCode
		}

		workshop = &models.Workshop{
			UUID:         uuid.New(),
			Name:         request.Name,
			Email:        request.Email,
			CurrencyCode: currencyCode,
			TaxRate:      utils.DefaultTaxRate,
		}
		if request.Phone != "" {
			workshop.Phone = &request.Phone
		}
		if request.Address != "" {
			workshop.Address = &request.Address
		}

		if err := af.workshopRepo.Save(ctx, workshop); err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(request.OwnerPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		owner = &models.User{
			UUID:         uuid.New(),
			WorkshopID:   workshop.ID,
			FirstName:    request.OwnerFirstName,
			LastName:     request.OwnerLastName,
			Email:        request.OwnerEmail,
			PasswordHash: string(hash),
			Role:         models.UserRoleOwner,
		}

		return af.userRepo.Save(ctx, owner)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Workshop onboarding failed: %s", err.Error())
		_ = af.logAdminAction(ctx, nil, models.AuditActionSignupCompleted, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("WORKSHOP_CREATE_FAILED", "Workshop onboarding failed", err)
	}

	msg := fmt.Sprintf("Workshop onboarded: %s", workshop.Name)
	_ = af.logAdminAction(ctx, &workshop.ID, models.AuditActionSignupCompleted, msg, true, nil, metadata)

	return &dto.AdminCreateWorkshopResponse{
		WorkshopUUID: workshop.UUID.String(),
		OwnerUUID:    owner.UUID.String(),
		CreatedAt:    workshop.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListWorkshops returns a page of all tenants on the platform
func (af *AdminAuthFlowImpl) ListWorkshops(ctx context.Context, request *dto.AdminListWorkshopsRequest) (*dto.AdminListWorkshopsResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.WorkshopFilter{}
	workshops, err := af.workshopRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("WORKSHOP_LIST_FAILED", "Workshop listing failed", err)
	}

	total, err := af.workshopRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("WORKSHOP_LIST_FAILED", "Workshop listing failed", err)
	}

	items := make([]dto.WorkshopDTO, 0, len(workshops))
	for _, w := range workshops {
		items = append(items, ToWorkshopDTO(*w))
	}

	return &dto.AdminListWorkshopsResponse{Items: items, Total: total}, nil
}

func (af *AdminAuthFlowImpl) logAdminAction(ctx context.Context, workshopID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		WorkshopID:   workshopID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return af.auditRepo.Save(ctx, audit)
}
