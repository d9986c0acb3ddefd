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

// ReceiptFlow handles money received against receivable invoices
type ReceiptFlow interface {
	RecordReceipt(ctx context.Context, request *dto.RecordReceiptRequest, metadata *ClientMetadata) (*dto.RecordReceiptResponse, error)
	ListInvoiceReceipts(ctx context.Context, workshopID uint, invoiceUUID string) (*dto.ListReceiptsResponse, error)
}

// ReceiptFlowImpl implements the receipt business flow
type ReceiptFlowImpl struct {
	receiptRepo repository.ReceiptRepository
	invoiceRepo repository.InvoiceRepository
	counterRepo repository.SequenceCounterRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewReceiptFlow creates a new receipt flow instance
func NewReceiptFlow(
	receiptRepo repository.ReceiptRepository,
	invoiceRepo repository.InvoiceRepository,
	counterRepo repository.SequenceCounterRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ReceiptFlow {
	return &ReceiptFlowImpl{
		receiptRepo: receiptRepo,
		invoiceRepo: invoiceRepo,
		counterRepo: counterRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// RecordReceipt applies a customer payment to a receivable invoice. The
// receipt insert, the invoice's amount_paid and status update, and the
// receipt number mint happen in one transaction.
func (rf *ReceiptFlowImpl) RecordReceipt(ctx context.Context, request *dto.RecordReceiptRequest, metadata *ClientMetadata) (*dto.RecordReceiptResponse, error) {
	var receipt *models.Receipt
	var invoice *models.Invoice

	err := repository.WithTransaction(ctx, rf.db, func(ctx context.Context) error {
		var err error
		invoice, err = rf.invoiceRepo.ByUUID(ctx, request.InvoiceUUID)
		if err != nil {
			return err
		}
		if invoice == nil || invoice.WorkshopID != request.WorkshopID || invoice.Kind != models.InvoiceKindReceivable {
			return ErrInvoiceNotFound
		}

		if invoice.Status != models.InvoiceStatusIssued && invoice.Status != models.InvoiceStatusPartiallyPaid {
			return ErrInvoiceNotPayable
		}
		if request.Amount <= 0 {
			return ErrAmountTooLow
		}

		amount := utils.Round2(request.Amount)
		outstanding := utils.Round2(invoice.GrandTotal - invoice.AmountPaid)
		if amount > outstanding {
			return ErrAmountExceedsOutstanding
		}

		counter, err := rf.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodeReceipt, utils.ToPtr(models.CounterCodeReceipt), nil)
		if err != nil {
			return err
		}

		receipt = &models.Receipt{
			UUID:          uuid.New(),
			WorkshopID:    request.WorkshopID,
			ReceiptNumber: counter.Reference(),
			InvoiceID:     invoice.ID,
			CustomerID:    *invoice.CustomerID,
			Amount:        amount,
			Method:        request.Method,
			ReferenceNo:   request.ReferenceNo,
			Notes:         request.Notes,
			ReceivedByID:  &request.UserID,
		}

		if err := rf.receiptRepo.Save(ctx, receipt); err != nil {
			return err
		}

		invoice.AmountPaid = utils.Round2(invoice.AmountPaid + amount)
		if invoice.AmountPaid >= invoice.GrandTotal {
			invoice.Status = models.InvoiceStatusPaid
		} else {
			invoice.Status = models.InvoiceStatusPartiallyPaid
		}

		return rf.invoiceRepo.Update(ctx, *invoice)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Receipt recording failed: %s", err.Error())
		_ = rf.logReceiptAction(ctx, request.WorkshopID, &request.UserID, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("RECEIPT_RECORD_FAILED", "Receipt recording failed", err)
	}

	msg := fmt.Sprintf("Receipt recorded: %s against %s", receipt.ReceiptNumber, invoice.InvoiceNumber)
	_ = rf.logReceiptAction(ctx, request.WorkshopID, &request.UserID, msg, true, nil, metadata)

	return &dto.RecordReceiptResponse{
		UUID:          receipt.UUID.String(),
		ReceiptNumber: receipt.ReceiptNumber,
		Amount:        receipt.Amount,
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceStatus: string(invoice.Status),
		Outstanding:   invoice.Outstanding(),
		CreatedAt:     receipt.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListInvoiceReceipts returns every receipt applied to one invoice
func (rf *ReceiptFlowImpl) ListInvoiceReceipts(ctx context.Context, workshopID uint, invoiceUUID string) (*dto.ListReceiptsResponse, error) {
	invoice, err := rf.invoiceRepo.ByUUID(ctx, invoiceUUID)
	if err != nil {
		return nil, NewBusinessError("RECEIPT_LIST_FAILED", "Receipt listing failed", err)
	}
	if invoice == nil || invoice.WorkshopID != workshopID {
		return nil, NewBusinessError("RECEIPT_LIST_FAILED", "Receipt listing failed", ErrInvoiceNotFound)
	}

	receipts, err := rf.receiptRepo.ListByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, NewBusinessError("RECEIPT_LIST_FAILED", "Receipt listing failed", err)
	}

	items := make([]dto.ReceiptDTO, 0, len(receipts))
	for _, r := range receipts {
		items = append(items, dto.ReceiptDTO{
			ID:            r.ID,
			UUID:          r.UUID.String(),
			ReceiptNumber: r.ReceiptNumber,
			InvoiceID:     r.InvoiceID,
			CustomerID:    r.CustomerID,
			Amount:        r.Amount,
			Method:        r.Method,
			ReferenceNo:   r.ReferenceNo,
			Notes:         r.Notes,
			CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ListReceiptsResponse{Items: items}, nil
}

func (rf *ReceiptFlowImpl) logReceiptAction(ctx context.Context, workshopID uint, userID *uint, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		WorkshopID:   &workshopID,
		UserID:       userID,
		Action:       models.AuditActionReceiptRecorded,
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

	return rf.auditRepo.Save(ctx, audit)
}
