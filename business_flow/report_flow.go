package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/config"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"github.com/pitline/pitline/utils"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

// ReportFlow handles dashboard numbers, the revenue report and XLSX exports.
// The dashboard summary is cached in Redis with a short TTL; everything else
// is computed on demand.
type ReportFlow interface {
	DashboardSummary(ctx context.Context, workshopID uint) (*dto.DashboardSummaryResponse, error)
	RevenueReport(ctx context.Context, request *dto.RevenueReportRequest) (*dto.RevenueReportResponse, error)
	ExportInvoices(ctx context.Context, request *dto.ExportInvoicesRequest) (*dto.ExportResult, error)
}

// ReportFlowImpl implements the report business flow
type ReportFlowImpl struct {
	jobCardRepo   repository.JobCardRepository
	invoiceRepo   repository.InvoiceRepository
	inventoryRepo repository.InventoryItemRepository
	rc            *redis.Client
	cacheConfig   *config.CacheConfig
}

// NewReportFlow creates a new report flow instance
func NewReportFlow(
	jobCardRepo repository.JobCardRepository,
	invoiceRepo repository.InvoiceRepository,
	inventoryRepo repository.InventoryItemRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) ReportFlow {
	return &ReportFlowImpl{
		jobCardRepo:   jobCardRepo,
		invoiceRepo:   invoiceRepo,
		inventoryRepo: inventoryRepo,
		rc:            rc,
		cacheConfig:   cacheConfig,
	}
}

// DashboardSummary returns the workshop dashboard numbers, served from cache
// when a fresh enough copy exists
func (rf *ReportFlowImpl) DashboardSummary(ctx context.Context, workshopID uint) (*dto.DashboardSummaryResponse, error) {
	cacheKey := rf.cacheKey(fmt.Sprintf("%s:%d", utils.DashboardSummaryCacheKey, workshopID))

	if rf.rc != nil {
		if bs, err := rf.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cached dto.DashboardSummaryResponse
			if err := json.Unmarshal(bs, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := rf.buildDashboardSummary(ctx, workshopID)
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Dashboard summary failed", err)
	}

	if rf.rc != nil {
		if bs, err := json.Marshal(summary); err == nil {
			_ = rf.rc.Set(ctx, cacheKey, bs, utils.DashboardSummaryCacheTTL).Err()
		}
	}

	return summary, nil
}

func (rf *ReportFlowImpl) buildDashboardSummary(ctx context.Context, workshopID uint) (*dto.DashboardSummaryResponse, error) {
	openStatus := models.JobCardStatusOpen
	openCount, err := rf.jobCardRepo.Count(ctx, models.JobCardFilter{WorkshopID: &workshopID, Status: &openStatus})
	if err != nil {
		return nil, err
	}

	monthStart := utils.StartOfMonth(utils.UTCNow())
	completedCount, err := rf.jobCardRepo.Count(ctx, models.JobCardFilter{WorkshopID: &workshopID, CompletedAfter: &monthStart})
	if err != nil {
		return nil, err
	}

	receivable, err := rf.invoiceRepo.SumOutstanding(ctx, workshopID, models.InvoiceKindReceivable)
	if err != nil {
		return nil, err
	}

	payable, err := rf.invoiceRepo.SumOutstanding(ctx, workshopID, models.InvoiceKindPayable)
	if err != nil {
		return nil, err
	}

	stockValue, err := rf.inventoryRepo.StockValue(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	revenue, err := rf.invoiceRepo.RevenueByMonth(ctx, workshopID, monthStart)
	if err != nil {
		return nil, err
	}
	revenueThisMonth := 0.0
	for _, row := range revenue {
		revenueThisMonth += row.Total
	}

	return &dto.DashboardSummaryResponse{
		OpenJobCards:          openCount,
		CompletedThisMonth:    completedCount,
		ReceivableOutstanding: utils.Round2(receivable),
		PayableOutstanding:    utils.Round2(payable),
		StockValue:            utils.Round2(stockValue),
		RevenueThisMonth:      utils.Round2(revenueThisMonth),
		GeneratedAt:           utils.UTCNow().Format(time.RFC3339),
	}, nil
}

// RevenueReport aggregates issued receivable invoices per calendar month
func (rf *ReportFlowImpl) RevenueReport(ctx context.Context, request *dto.RevenueReportRequest) (*dto.RevenueReportResponse, error) {
	months := request.Months
	if months < 1 || months > 36 {
		months = 12
	}

	since := utils.StartOfMonth(utils.UTCNow()).AddDate(0, -(months - 1), 0)
	rows, err := rf.invoiceRepo.RevenueByMonth(ctx, request.WorkshopID, since)
	if err != nil {
		return nil, NewBusinessError("REVENUE_REPORT_FAILED", "Revenue report failed", err)
	}

	items := make([]dto.MonthlyRevenueDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.MonthlyRevenueDTO{
			Month:        row.Month,
			Total:        utils.Round2(row.Total),
			InvoiceCount: row.Count,
		})
	}

	return &dto.RevenueReportResponse{Items: items}, nil
}

// ExportInvoices builds an XLSX workbook of the workshop's invoices
func (rf *ReportFlowImpl) ExportInvoices(ctx context.Context, request *dto.ExportInvoicesRequest) (*dto.ExportResult, error) {
	filter := models.InvoiceFilter{WorkshopID: &request.WorkshopID}
	if request.Kind != nil {
		kind := models.InvoiceKind(*request.Kind)
		filter.Kind = &kind
	}
	if request.From != nil {
		filter.CreatedAfter = request.From
	}
	if request.To != nil {
		filter.CreatedBefore = request.To
	}

	invoices, err := rf.invoiceRepo.ByFilter(ctx, filter, "created_at ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("INVOICE_EXPORT_FAILED", "Invoice export failed", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "invoices"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"invoice_number", "kind", "status", "currency", "exchange_rate", "subtotal", "discount", "tax", "grand_total", "amount_paid", "outstanding", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, inv := range invoices {
		record := []string{
			inv.InvoiceNumber,
			string(inv.Kind),
			string(inv.Status),
			inv.CurrencyCode,
			strconv.FormatFloat(inv.ExchangeRate, 'f', 6, 64),
			strconv.FormatFloat(inv.Subtotal, 'f', 2, 64),
			strconv.FormatFloat(inv.Discount, 'f', 2, 64),
			strconv.FormatFloat(inv.TaxAmount, 'f', 2, 64),
			strconv.FormatFloat(inv.GrandTotal, 'f', 2, 64),
			strconv.FormatFloat(inv.AmountPaid, 'f', 2, 64),
			strconv.FormatFloat(inv.Outstanding(), 'f', 2, 64),
			inv.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("INVOICE_EXPORT_FAILED", "Failed to write workbook", err)
	}

	return &dto.ExportResult{
		Filename:    fmt.Sprintf("invoices_%s.xlsx", utils.UTCNow().Format("20060102")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func (rf *ReportFlowImpl) cacheKey(key string) string {
	if rf.cacheConfig != nil && rf.cacheConfig.RedisPrefix != "" {
		return rf.cacheConfig.RedisPrefix + ":" + key
	}
	return key
}
