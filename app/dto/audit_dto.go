package dto

// ListAuditLogsRequest represents the request for the workshop audit trail
type ListAuditLogsRequest struct {
	WorkshopID uint    `json:"-"`
	Action     *string `json:"-"`
	Page       int     `json:"-" validate:"omitempty,min=1"`
	PageSize   int     `json:"-" validate:"omitempty,min=1,max=100"`
}

// AuditLogDTO represents one audit trail entry
type AuditLogDTO struct {
	ID          uint    `json:"id"`
	UserID      *uint   `json:"user_id,omitempty"`
	Action      string  `json:"action"`
	Description *string `json:"description,omitempty"`
	IPAddress   *string `json:"ip_address,omitempty"`
	RequestID   *string `json:"request_id,omitempty"`
	Success     *bool   `json:"success"`
	CreatedAt   string  `json:"created_at"`
}

// ListAuditLogsResponse represents the paginated audit trail
type ListAuditLogsResponse struct {
	Items []AuditLogDTO `json:"items"`
	Total int64         `json:"total"`
}
