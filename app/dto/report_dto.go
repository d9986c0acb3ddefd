package dto

import (
	"time"
)

// DashboardSummaryResponse represents the workshop dashboard numbers
type DashboardSummaryResponse struct {
	OpenJobCards          int64   `json:"open_job_cards"`
	CompletedThisMonth    int64   `json:"completed_this_month"`
	ReceivableOutstanding float64 `json:"receivable_outstanding"`
	PayableOutstanding    float64 `json:"payable_outstanding"`
	StockValue            float64 `json:"stock_value"`
	RevenueThisMonth      float64 `json:"revenue_this_month"`
	GeneratedAt           string  `json:"generated_at"`
}

// MonthlyRevenueDTO is one row of the revenue report
type MonthlyRevenueDTO struct {
	Month        time.Time `json:"month"`
	Total        float64   `json:"total"`
	InvoiceCount int64     `json:"invoice_count"`
}

// RevenueReportRequest represents the request for the revenue report
type RevenueReportRequest struct {
	WorkshopID uint `json:"-"`
	Months     int  `json:"-" validate:"omitempty,min=1,max=36"`
}

// RevenueReportResponse represents revenue aggregated per month
type RevenueReportResponse struct {
	Items []MonthlyRevenueDTO `json:"items"`
}

// ExportInvoicesRequest represents the request for an XLSX invoice export
type ExportInvoicesRequest struct {
	WorkshopID uint       `json:"-"`
	Kind       *string    `json:"-" validate:"omitempty,oneof=receivable payable"`
	From       *time.Time `json:"-"`
	To         *time.Time `json:"-"`
}

// ExportResult carries a generated spreadsheet
type ExportResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}
