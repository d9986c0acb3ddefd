package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// CounterFlow exposes the reference number allocator to the API surface.
// Job numbers, invoice numbers and the rest are minted through the same
// allocator from inside their own flows; this flow covers listing, settings
// changes and ad-hoc allocation for custom codes.
type CounterFlow interface {
	ListCounters(ctx context.Context, workshopID uint) (*dto.ListCountersResponse, error)
	UpdateCounter(ctx context.Context, request *dto.UpdateCounterRequest, metadata *ClientMetadata) (*dto.CounterDTO, error)
	Allocate(ctx context.Context, request *dto.AllocateCounterRequest, metadata *ClientMetadata) (*dto.AllocateCounterResponse, error)
}

// CounterFlowImpl implements the counter business flow
type CounterFlowImpl struct {
	counterRepo repository.SequenceCounterRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewCounterFlow creates a new counter flow instance
func NewCounterFlow(
	counterRepo repository.SequenceCounterRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) CounterFlow {
	return &CounterFlowImpl{
		counterRepo: counterRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// ListCounters returns every counter the workshop has allocated from so far
func (cf *CounterFlowImpl) ListCounters(ctx context.Context, workshopID uint) (*dto.ListCountersResponse, error) {
	counters, err := cf.counterRepo.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, NewBusinessError("LIST_COUNTERS_FAILED", "Failed to list counters", err)
	}

	items := make([]dto.CounterDTO, 0, len(counters))
	for _, c := range counters {
		items = append(items, ToCounterDTO(*c))
	}

	return &dto.ListCountersResponse{Items: items}, nil
}

// UpdateCounter changes a counter's formatting settings. The running value is
// deliberately untouchable here: only Allocate ever moves it.
func (cf *CounterFlowImpl) UpdateCounter(ctx context.Context, request *dto.UpdateCounterRequest, metadata *ClientMetadata) (*dto.CounterDTO, error) {
	code := strings.TrimSpace(request.Code)
	if code == "" {
		return nil, NewBusinessError("COUNTER_UPDATE_FAILED", "Counter update failed", ErrCounterCodeInvalid)
	}

	var updated *models.SequenceCounter

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		counter, err := cf.counterRepo.ByWorkshopAndCode(ctx, request.WorkshopID, code)
		if err != nil {
			return err
		}
		if counter == nil {
			return ErrCounterNotFound
		}

		if request.Description != nil {
			counter.Description = *request.Description
		}
		if request.Prefix != nil {
			counter.Prefix = *request.Prefix
		}
		if request.Separator != nil {
			counter.Separator = *request.Separator
		}
		if request.Length != nil {
			counter.Length = *request.Length
		}
		if request.Status != nil {
			counter.Status = request.Status
		}

		if err := cf.counterRepo.UpdateSettings(ctx, *counter); err != nil {
			return err
		}

		updated = counter
		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Counter update failed: %s", err.Error())
		_ = cf.logCounterAction(ctx, request.WorkshopID, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("COUNTER_UPDATE_FAILED", "Counter update failed", err)
	}

	msg := fmt.Sprintf("Counter updated: %s", code)
	_ = cf.logCounterAction(ctx, request.WorkshopID, msg, true, nil, metadata)

	result := ToCounterDTO(*updated)
	return &result, nil
}

// Allocate mints the next reference number for an arbitrary counter code,
// creating the counter on first use
func (cf *CounterFlowImpl) Allocate(ctx context.Context, request *dto.AllocateCounterRequest, metadata *ClientMetadata) (*dto.AllocateCounterResponse, error) {
	var counter *models.SequenceCounter

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		var err error
		counter, err = cf.counterRepo.Allocate(ctx, request.WorkshopID, strings.TrimSpace(request.Code), request.Prefix, request.Description)
		return err
	})

	if err != nil {
		return nil, NewBusinessError("COUNTER_ALLOCATE_FAILED", "Counter allocation failed", err)
	}

	return &dto.AllocateCounterResponse{
		Code:      counter.Code,
		Value:     counter.Value,
		Reference: counter.Reference(),
	}, nil
}

func (cf *CounterFlowImpl) logCounterAction(ctx context.Context, workshopID uint, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		WorkshopID:   &workshopID,
		Action:       models.AuditActionCounterUpdated,
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

	return cf.auditRepo.Save(ctx, audit)
}
