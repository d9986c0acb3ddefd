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

// PaymentFlow handles money paid to suppliers against payable invoices
type PaymentFlow interface {
	RecordPayment(ctx context.Context, request *dto.RecordPaymentRequest, metadata *ClientMetadata) (*dto.RecordPaymentResponse, error)
	ListInvoicePayments(ctx context.Context, workshopID uint, invoiceUUID string) (*dto.ListPaymentsResponse, error)
}

// PaymentFlowImpl implements the supplier payment business flow
type PaymentFlowImpl struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	counterRepo repository.SequenceCounterRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewPaymentFlow creates a new payment flow instance
func NewPaymentFlow(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	counterRepo repository.SequenceCounterRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) PaymentFlow {
	return &PaymentFlowImpl{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		counterRepo: counterRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// RecordPayment applies a supplier payment to a payable invoice. The payment
// voucher insert, the invoice's amount_paid and status update, and the
// voucher number mint happen in one transaction.
func (pf *PaymentFlowImpl) RecordPayment(ctx context.Context, request *dto.RecordPaymentRequest, metadata *ClientMetadata) (*dto.RecordPaymentResponse, error) {
	var payment *models.Payment
	var invoice *models.Invoice

	err := repository.WithTransaction(ctx, pf.db, func(ctx context.Context) error {
		var err error
		invoice, err = pf.invoiceRepo.ByUUID(ctx, request.InvoiceUUID)
		if err != nil {
			return err
		}
		if invoice == nil || invoice.WorkshopID != request.WorkshopID || invoice.Kind != models.InvoiceKindPayable {
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

		counter, err := pf.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodePayment, utils.ToPtr(models.CounterCodePayment), nil)
		if err != nil {
			return err
		}

		payment = &models.Payment{
			UUID:          uuid.New(),
			WorkshopID:    request.WorkshopID,
			PaymentNumber: counter.Reference(),
			InvoiceID:     invoice.ID,
			SupplierID:    *invoice.SupplierID,
			Amount:        amount,
			Method:        request.Method,
			ReferenceNo:   request.ReferenceNo,
			Notes:         request.Notes,
			PaidByID:      &request.UserID,
		}

		if err := pf.paymentRepo.Save(ctx, payment); err != nil {
			return err
		}

		invoice.AmountPaid = utils.Round2(invoice.AmountPaid + amount)
		if invoice.AmountPaid >= invoice.GrandTotal {
			invoice.Status = models.InvoiceStatusPaid
		} else {
			invoice.Status = models.InvoiceStatusPartiallyPaid
		}

		return pf.invoiceRepo.Update(ctx, *invoice)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Payment recording failed: %s", err.Error())
		_ = pf.logPaymentAction(ctx, request.WorkshopID, &request.UserID, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("PAYMENT_RECORD_FAILED", "Payment recording failed", err)
	}

	msg := fmt.Sprintf("Payment recorded: %s against %s", payment.PaymentNumber, invoice.InvoiceNumber)
	_ = pf.logPaymentAction(ctx, request.WorkshopID, &request.UserID, msg, true, nil, metadata)

	return &dto.RecordPaymentResponse{
		UUID:          payment.UUID.String(),
		PaymentNumber: payment.PaymentNumber,
		Amount:        payment.Amount,
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceStatus: string(invoice.Status),
		Outstanding:   invoice.Outstanding(),
		CreatedAt:     payment.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListInvoicePayments returns every payment applied to one invoice
func (pf *PaymentFlowImpl) ListInvoicePayments(ctx context.Context, workshopID uint, invoiceUUID string) (*dto.ListPaymentsResponse, error) {
	invoice, err := pf.invoiceRepo.ByUUID(ctx, invoiceUUID)
	if err != nil {
		return nil, NewBusinessError("PAYMENT_LIST_FAILED", "Payment listing failed", err)
	}
	if invoice == nil || invoice.WorkshopID != workshopID {
		return nil, NewBusinessError("PAYMENT_LIST_FAILED", "Payment listing failed", ErrInvoiceNotFound)
	}

	payments, err := pf.paymentRepo.ListByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, NewBusinessError("PAYMENT_LIST_FAILED", "Payment listing failed", err)
	}

	items := make([]dto.PaymentDTO, 0, len(payments))
	for _, p := range payments {
		items = append(items, dto.PaymentDTO{
			ID:            p.ID,
			UUID:          p.UUID.String(),
			PaymentNumber: p.PaymentNumber,
			InvoiceID:     p.InvoiceID,
			SupplierID:    p.SupplierID,
			Amount:        p.Amount,
			Method:        p.Method,
			ReferenceNo:   p.ReferenceNo,
			Notes:         p.Notes,
			CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ListPaymentsResponse{Items: items}, nil
}

func (pf *PaymentFlowImpl) logPaymentAction(ctx context.Context, workshopID uint, userID *uint, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		WorkshopID:   &workshopID,
		UserID:       userID,
		Action:       models.AuditActionPaymentRecorded,
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

	return pf.auditRepo.Save(ctx, audit)
}
