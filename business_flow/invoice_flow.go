package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"github.com/pitline/pitline/utils"
	"gorm.io/gorm"
)

// InvoiceFlow handles receivable and payable invoices
type InvoiceFlow interface {
	IssueInvoice(ctx context.Context, request *dto.IssueInvoiceRequest, metadata *ClientMetadata) (*dto.InvoiceResponse, error)
	RecordPayableInvoice(ctx context.Context, request *dto.RecordPayableInvoiceRequest, metadata *ClientMetadata) (*dto.InvoiceResponse, error)
	VoidInvoice(ctx context.Context, request *dto.VoidInvoiceRequest, metadata *ClientMetadata) (*dto.InvoiceDTO, error)
	GetInvoice(ctx context.Context, workshopID uint, invoiceUUID string) (*dto.InvoiceDTO, error)
	ListInvoices(ctx context.Context, request *dto.ListInvoicesRequest) (*dto.ListInvoicesResponse, error)
}

// InvoiceFlowImpl implements the invoice business flow
type InvoiceFlowImpl struct {
	invoiceRepo  repository.InvoiceRepository
	jobCardRepo  repository.JobCardRepository
	supplierRepo repository.SupplierRepository
	workshopRepo repository.WorkshopRepository
	currencyRepo repository.CurrencyRepository
	receiptRepo  repository.ReceiptRepository
	paymentRepo  repository.PaymentRepository
	counterRepo  repository.SequenceCounterRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewInvoiceFlow creates a new invoice flow instance
func NewInvoiceFlow(
	invoiceRepo repository.InvoiceRepository,
	jobCardRepo repository.JobCardRepository,
	supplierRepo repository.SupplierRepository,
	workshopRepo repository.WorkshopRepository,
	currencyRepo repository.CurrencyRepository,
	receiptRepo repository.ReceiptRepository,
	paymentRepo repository.PaymentRepository,
	counterRepo repository.SequenceCounterRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) InvoiceFlow {
	return &InvoiceFlowImpl{
		invoiceRepo:  invoiceRepo,
		jobCardRepo:  jobCardRepo,
		supplierRepo: supplierRepo,
		workshopRepo: workshopRepo,
		currencyRepo: currencyRepo,
		receiptRepo:  receiptRepo,
		paymentRepo:  paymentRepo,
		counterRepo:  counterRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// IssueInvoice creates a receivable invoice from a completed job card. The
// workshop's tax rate and the currency's exchange rate are snapshotted on the
// invoice, the job card moves to invoiced, and the invoice number is minted,
// all inside one transaction.
func (inf *InvoiceFlowImpl) IssueInvoice(ctx context.Context, request *dto.IssueInvoiceRequest, metadata *ClientMetadata) (*dto.InvoiceResponse, error) {
	var invoice *models.Invoice

	err := repository.WithTransaction(ctx, inf.db, func(ctx context.Context) error {
		jobCard, err := inf.jobCardRepo.ByUUID(ctx, request.JobCardUUID)
		if err != nil {
			return err
		}
		if jobCard == nil || jobCard.WorkshopID != request.WorkshopID {
			return ErrJobCardNotFound
		}
		if jobCard.Status != models.JobCardStatusCompleted {
			return ErrJobCardNotCompleted
		}
		if len(jobCard.Lines) == 0 {
			return ErrJobCardLinesRequired
		}

		invoiced, err := inf.invoiceRepo.Exists(ctx, models.InvoiceFilter{JobCardID: &jobCard.ID})
		if err != nil {
			return err
		}
		if invoiced {
			return ErrJobCardAlreadyInvoiced
		}

		workshop, err := inf.workshopRepo.ByID(ctx, request.WorkshopID)
		if err != nil {
			return err
		}
		if workshop == nil {
			return ErrWorkshopNotFound
		}

		currencyCode, exchangeRate, err := inf.resolveCurrency(ctx, workshop, request.CurrencyCode)
		if err != nil {
			return err
		}

		subtotal := utils.Round2(jobCard.Lines.Subtotal())
		discount := utils.Round2(request.Discount)
		taxAmount := utils.Round2((subtotal - discount) * workshop.TaxRate)
		grandTotal := utils.Round2(subtotal - discount + taxAmount)

		counter, err := inf.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodeInvoice, utils.ToPtr(models.CounterCodeInvoice), nil)
		if err != nil {
			return err
		}

		invoice = &models.Invoice{
			UUID:          uuid.New(),
			WorkshopID:    request.WorkshopID,
			InvoiceNumber: counter.Reference(),
			Kind:          models.InvoiceKindReceivable,
			CustomerID:    &jobCard.CustomerID,
			JobCardID:     &jobCard.ID,
			Lines:         jobCard.Lines,
			Subtotal:      subtotal,
			TaxAmount:     taxAmount,
			Discount:      discount,
			GrandTotal:    grandTotal,
			CurrencyCode:  currencyCode,
			ExchangeRate:  exchangeRate,
			Status:        models.InvoiceStatusIssued,
			DueDate:       request.DueDate,
		}

		if err := inf.invoiceRepo.Save(ctx, invoice); err != nil {
			return err
		}

		jobCard.Status = models.JobCardStatusInvoiced
		return inf.jobCardRepo.Update(ctx, *jobCard)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Invoice issue failed: %s", err.Error())
		_ = inf.logInvoiceAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionInvoiceIssued, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("INVOICE_ISSUE_FAILED", "Invoice issue failed", err)
	}

	msg := fmt.Sprintf("Invoice issued: %s", invoice.InvoiceNumber)
	_ = inf.logInvoiceAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionInvoiceIssued, msg, true, nil, metadata)

	return toInvoiceResponse(invoice), nil
}

// RecordPayableInvoice records a supplier invoice against the workshop
func (inf *InvoiceFlowImpl) RecordPayableInvoice(ctx context.Context, request *dto.RecordPayableInvoiceRequest, metadata *ClientMetadata) (*dto.InvoiceResponse, error) {
	var invoice *models.Invoice

	err := repository.WithTransaction(ctx, inf.db, func(ctx context.Context) error {
		supplier, err := inf.supplierRepo.ByUUID(ctx, request.SupplierUUID)
		if err != nil {
			return err
		}
		if supplier == nil || supplier.WorkshopID != request.WorkshopID {
			return ErrSupplierNotFound
		}

		workshop, err := inf.workshopRepo.ByID(ctx, request.WorkshopID)
		if err != nil {
			return err
		}
		if workshop == nil {
			return ErrWorkshopNotFound
		}

		currencyCode, exchangeRate, err := inf.resolveCurrency(ctx, workshop, request.CurrencyCode)
		if err != nil {
			return err
		}

		lines := ToDocumentLines(request.Lines)
		subtotal := utils.Round2(lines.Subtotal())
		discount := utils.Round2(request.Discount)
		grandTotal := utils.Round2(subtotal - discount)

		counter, err := inf.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodePayableInvoice, utils.ToPtr(models.CounterCodePayableInvoice), nil)
		if err != nil {
			return err
		}

		invoice = &models.Invoice{
			UUID:          uuid.New(),
			WorkshopID:    request.WorkshopID,
			InvoiceNumber: counter.Reference(),
			Kind:          models.InvoiceKindPayable,
			SupplierID:    &supplier.ID,
			Lines:         lines,
			Subtotal:      subtotal,
			Discount:      discount,
			GrandTotal:    grandTotal,
			CurrencyCode:  currencyCode,
			ExchangeRate:  exchangeRate,
			Status:        models.InvoiceStatusIssued,
			DueDate:       request.DueDate,
		}

		return inf.invoiceRepo.Save(ctx, invoice)
	})

	if err != nil {
		return nil, NewBusinessError("PAYABLE_INVOICE_FAILED", "Payable invoice recording failed", err)
	}

	return toInvoiceResponse(invoice), nil
}

// VoidInvoice voids an invoice that has no recorded settlements
func (inf *InvoiceFlowImpl) VoidInvoice(ctx context.Context, request *dto.VoidInvoiceRequest, metadata *ClientMetadata) (*dto.InvoiceDTO, error) {
	var voided *models.Invoice

	err := repository.WithTransaction(ctx, inf.db, func(ctx context.Context) error {
		invoice, err := inf.findWorkshopInvoice(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		if invoice.Status == models.InvoiceStatusVoid {
			return ErrInvoiceAlreadyVoid
		}
		if invoice.AmountPaid > 0 {
			return ErrInvoiceHasPayments
		}

		invoice.Status = models.InvoiceStatusVoid
		if err := inf.invoiceRepo.Update(ctx, *invoice); err != nil {
			return err
		}

		// A voided receivable releases its job card back to completed
		if invoice.Kind == models.InvoiceKindReceivable && invoice.JobCardID != nil {
			jobCard, err := inf.jobCardRepo.ByID(ctx, *invoice.JobCardID)
			if err != nil {
				return err
			}
			if jobCard != nil && jobCard.Status == models.JobCardStatusInvoiced {
				jobCard.Status = models.JobCardStatusCompleted
				if err := inf.jobCardRepo.Update(ctx, *jobCard); err != nil {
					return err
				}
			}
		}

		voided = invoice
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("INVOICE_VOID_FAILED", "Invoice void failed", err)
	}

	result := ToInvoiceDTO(*voided)
	return &result, nil
}

// GetInvoice returns one invoice scoped to the workshop
func (inf *InvoiceFlowImpl) GetInvoice(ctx context.Context, workshopID uint, invoiceUUID string) (*dto.InvoiceDTO, error) {
	invoice, err := inf.findWorkshopInvoice(ctx, workshopID, invoiceUUID)
	if err != nil {
		return nil, NewBusinessError("INVOICE_GET_FAILED", "Invoice lookup failed", err)
	}

	result := ToInvoiceDTO(*invoice)
	return &result, nil
}

// ListInvoices returns a page of the workshop's invoices, optionally filtered
// by kind
func (inf *InvoiceFlowImpl) ListInvoices(ctx context.Context, request *dto.ListInvoicesRequest) (*dto.ListInvoicesResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var kind *models.InvoiceKind
	filter := models.InvoiceFilter{WorkshopID: &request.WorkshopID}
	if request.Kind != nil {
		k := models.InvoiceKind(*request.Kind)
		kind = &k
		filter.Kind = &k
	}

	invoices, err := inf.invoiceRepo.ListByWorkshop(ctx, request.WorkshopID, kind, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("INVOICE_LIST_FAILED", "Invoice listing failed", err)
	}

	total, err := inf.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("INVOICE_LIST_FAILED", "Invoice listing failed", err)
	}

	items := make([]dto.InvoiceDTO, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, ToInvoiceDTO(*inv))
	}

	return &dto.ListInvoicesResponse{Items: items, Total: total}, nil
}

// resolveCurrency picks the invoice currency: an explicit request code must
// name an active workshop currency whose rate gets snapshotted; otherwise the
// workshop's base currency applies at rate 1.
func (inf *InvoiceFlowImpl) resolveCurrency(ctx context.Context, workshop *models.Workshop, code *string) (string, float64, error) {
	if code == nil || *code == workshop.CurrencyCode {
		return workshop.CurrencyCode, 1, nil
	}

	currency, err := inf.currencyRepo.ByCode(ctx, workshop.ID, *code)
	if err != nil {
		return "", 0, err
	}
	if currency == nil || !utils.IsTrue(currency.IsActive) {
		return "", 0, ErrCurrencyNotFound
	}

	return currency.Code, currency.ExchangeRate, nil
}

func (inf *InvoiceFlowImpl) findWorkshopInvoice(ctx context.Context, workshopID uint, invoiceUUID string) (*models.Invoice, error) {
	invoice, err := inf.invoiceRepo.ByUUID(ctx, invoiceUUID)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.WorkshopID != workshopID {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

func (inf *InvoiceFlowImpl) logInvoiceAction(ctx context.Context, workshopID uint, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		WorkshopID:   &workshopID,
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
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return inf.auditRepo.Save(ctx, audit)
}

func toInvoiceResponse(invoice *models.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		UUID:          invoice.UUID.String(),
		InvoiceNumber: invoice.InvoiceNumber,
		Kind:          string(invoice.Kind),
		Subtotal:      invoice.Subtotal,
		TaxAmount:     invoice.TaxAmount,
		Discount:      invoice.Discount,
		GrandTotal:    invoice.GrandTotal,
		CurrencyCode:  invoice.CurrencyCode,
		ExchangeRate:  invoice.ExchangeRate,
		Status:        string(invoice.Status),
		CreatedAt:     invoice.CreatedAt.Format(time.RFC3339),
	}
}
