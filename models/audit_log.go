package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	WorkshopID   *uint           `gorm:"index:idx_audit_workshop_id" json:"workshop_id,omitempty"`
	UserID       *uint           `gorm:"index:idx_audit_user_id" json:"user_id,omitempty"`
	User         *User           `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Action       string          `gorm:"type:audit_action_enum;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionSignupCompleted      = "signup_completed"
	AuditActionLoginSuccessful      = "login_successful"
	AuditActionLoginFailed          = "login_failed"
	AuditActionJobCardCreated       = "job_card_created"
	AuditActionJobCardStatusChanged = "job_card_status_changed"
	AuditActionQuotationCreated     = "quotation_created"
	AuditActionQuotationConverted   = "quotation_converted"
	AuditActionInvoiceIssued        = "invoice_issued"
	AuditActionReceiptRecorded      = "receipt_recorded"
	AuditActionPaymentRecorded      = "payment_recorded"
	AuditActionStockReceived        = "stock_received"
	AuditActionStockIssued          = "stock_issued"
	AuditActionEmployeeCreated      = "employee_created"
	AuditActionCounterUpdated       = "counter_updated"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	WorkshopID    *uint
	UserID        *uint
	Action        *string
	Success       *bool
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
