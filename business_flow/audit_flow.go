package businessflow

import (
	"context"
	"time"

	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
)

// AuditFlow exposes the workshop audit trail.
type AuditFlow interface {
	ListAuditLogs(ctx context.Context, request *dto.ListAuditLogsRequest) (*dto.ListAuditLogsResponse, error)
}

// AuditFlowImpl implements the audit business flow
type AuditFlowImpl struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditFlow creates a new audit flow instance
func NewAuditFlow(auditRepo repository.AuditLogRepository) AuditFlow {
	return &AuditFlowImpl{auditRepo: auditRepo}
}

// ListAuditLogs returns a page of the workshop's audit trail, newest first
func (af *AuditFlowImpl) ListAuditLogs(ctx context.Context, request *dto.ListAuditLogsRequest) (*dto.ListAuditLogsResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.AuditLogFilter{WorkshopID: &request.WorkshopID}
	if request.Action != nil {
		filter.Action = request.Action
	}

	logs, err := af.auditRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("AUDIT_LIST_FAILED", "Audit log listing failed", err)
	}

	total, err := af.auditRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("AUDIT_LIST_FAILED", "Audit log listing failed", err)
	}

	items := make([]dto.AuditLogDTO, 0, len(logs))
	for _, l := range logs {
		items = append(items, dto.AuditLogDTO{
			ID:          l.ID,
			UserID:      l.UserID,
			Action:      l.Action,
			Description: l.Description,
			IPAddress:   l.IPAddress,
			RequestID:   l.RequestID,
			Success:     l.Success,
			CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ListAuditLogsResponse{Items: items, Total: total}, nil
}
