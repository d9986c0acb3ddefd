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

// QuotationFlow handles quotations and their conversion into job cards
type QuotationFlow interface {
	CreateQuotation(ctx context.Context, request *dto.CreateQuotationRequest, metadata *ClientMetadata) (*dto.CreateQuotationResponse, error)
	ChangeStatus(ctx context.Context, request *dto.ChangeQuotationStatusRequest, metadata *ClientMetadata) (*dto.QuotationDTO, error)
	ConvertToJobCard(ctx context.Context, request *dto.ConvertQuotationRequest, metadata *ClientMetadata) (*dto.ConvertQuotationResponse, error)
	GetQuotation(ctx context.Context, workshopID uint, quotationUUID string) (*dto.QuotationDTO, error)
	ListQuotations(ctx context.Context, request *dto.ListQuotationsRequest) (*dto.ListQuotationsResponse, error)
}

// QuotationFlowImpl implements the quotation business flow
type QuotationFlowImpl struct {
	quotationRepo repository.QuotationRepository
	jobCardRepo   repository.JobCardRepository
	customerRepo  repository.CustomerRepository
	vehicleRepo   repository.VehicleRepository
	counterRepo   repository.SequenceCounterRepository
	auditRepo     repository.AuditLogRepository
	db            *gorm.DB
}

// NewQuotationFlow creates a new quotation flow instance
func NewQuotationFlow(
	quotationRepo repository.QuotationRepository,
	jobCardRepo repository.JobCardRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	counterRepo repository.SequenceCounterRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) QuotationFlow {
	return &QuotationFlowImpl{
		quotationRepo: quotationRepo,
		jobCardRepo:   jobCardRepo,
		customerRepo:  customerRepo,
		vehicleRepo:   vehicleRepo,
		counterRepo:   counterRepo,
		auditRepo:     auditRepo,
		db:            db,
	}
}

// CreateQuotation drafts a priced estimate for a customer. The quote number
// is minted inside the insert transaction.
func (qf *QuotationFlowImpl) CreateQuotation(ctx context.Context, request *dto.CreateQuotationRequest, metadata *ClientMetadata) (*dto.CreateQuotationResponse, error) {
	var quotation *models.Quotation

	err := repository.WithTransaction(ctx, qf.db, func(ctx context.Context) error {
		customer, err := qf.customerRepo.ByUUID(ctx, request.CustomerUUID)
		if err != nil {
			return err
		}
		if customer == nil || customer.WorkshopID != request.WorkshopID {
			return ErrCustomerNotFound
		}

		var vehicleID *uint
		if request.VehicleUUID != nil {
			vehicle, err := qf.vehicleRepo.ByUUID(ctx, *request.VehicleUUID)
			if err != nil {
				return err
			}
			if vehicle == nil || vehicle.WorkshopID != request.WorkshopID {
				return ErrVehicleNotFound
			}
			if vehicle.CustomerID != customer.ID {
				return ErrVehicleOwnerMismatch
			}
			vehicleID = &vehicle.ID
		}

		counter, err := qf.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodeQuotation, utils.ToPtr(models.CounterCodeQuotation), nil)
		if err != nil {
			return err
		}

		quotation = &models.Quotation{
			UUID:        uuid.New(),
			WorkshopID:  request.WorkshopID,
			QuoteNumber: counter.Reference(),
			CustomerID:  customer.ID,
			VehicleID:   vehicleID,
			Lines:       ToDocumentLines(request.Lines),
			Status:      models.QuotationStatusDraft,
			ValidUntil:  request.ValidUntil,
			Notes:       request.Notes,
		}

		return qf.quotationRepo.Save(ctx, quotation)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Quotation creation failed: %s", err.Error())
		_ = qf.logQuotationAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionQuotationCreated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("QUOTATION_CREATE_FAILED", "Quotation creation failed", err)
	}

	msg := fmt.Sprintf("Quotation created: %s", quotation.QuoteNumber)
	_ = qf.logQuotationAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionQuotationCreated, msg, true, nil, metadata)

	return &dto.CreateQuotationResponse{
		UUID:        quotation.UUID.String(),
		QuoteNumber: quotation.QuoteNumber,
		Status:      quotation.Status.String(),
		CreatedAt:   quotation.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ChangeStatus moves a quotation between draft, sent, accepted, rejected and
// expired. Accepted and rejected are terminal except for conversion.
func (qf *QuotationFlowImpl) ChangeStatus(ctx context.Context, request *dto.ChangeQuotationStatusRequest, metadata *ClientMetadata) (*dto.QuotationDTO, error) {
	next := models.QuotationStatus(request.Status)
	if !next.Valid() {
		return nil, NewBusinessError("QUOTATION_STATUS_FAILED", "Quotation status change failed", ErrInvalidStatusTransition)
	}

	var updated *models.Quotation

	err := repository.WithTransaction(ctx, qf.db, func(ctx context.Context) error {
		quotation, err := qf.findWorkshopQuotation(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		switch quotation.Status {
		case models.QuotationStatusDraft:
			if next != models.QuotationStatusSent && next != models.QuotationStatusExpired {
				return ErrInvalidStatusTransition
			}
		case models.QuotationStatusSent:
			if next != models.QuotationStatusAccepted && next != models.QuotationStatusRejected && next != models.QuotationStatusExpired {
				return ErrInvalidStatusTransition
			}
		default:
			return ErrInvalidStatusTransition
		}

		quotation.Status = next
		if err := qf.quotationRepo.Update(ctx, *quotation); err != nil {
			return err
		}

		updated = quotation
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("QUOTATION_STATUS_FAILED", "Quotation status change failed", err)
	}

	result := ToQuotationDTO(*updated)
	return &result, nil
}

// ConvertToJobCard turns an accepted quotation into a job card, carrying its
// lines over. A quotation converts at most once; the minted job number and
// the job card insert share one transaction.
func (qf *QuotationFlowImpl) ConvertToJobCard(ctx context.Context, request *dto.ConvertQuotationRequest, metadata *ClientMetadata) (*dto.ConvertQuotationResponse, error) {
	var quotation *models.Quotation
	var jobCard *models.JobCard

	err := repository.WithTransaction(ctx, qf.db, func(ctx context.Context) error {
		var err error
		quotation, err = qf.findWorkshopQuotation(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		if quotation.Status != models.QuotationStatusAccepted {
			return ErrQuotationNotAccepted
		}
		if quotation.VehicleID == nil {
			return ErrVehicleNotFound
		}

		converted, err := qf.jobCardRepo.Exists(ctx, models.JobCardFilter{QuotationID: &quotation.ID})
		if err != nil {
			return err
		}
		if converted {
			return ErrQuotationAlreadyConverted
		}

		counter, err := qf.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodeJobCard, utils.ToPtr(models.CounterCodeJobCard), nil)
		if err != nil {
			return err
		}

		jobCard = &models.JobCard{
			UUID:        uuid.New(),
			WorkshopID:  request.WorkshopID,
			JobNumber:   counter.Reference(),
			CustomerID:  quotation.CustomerID,
			VehicleID:   *quotation.VehicleID,
			Complaint:   request.Complaint,
			OdometerIn:  request.OdometerIn,
			Lines:       quotation.Lines,
			Status:      models.JobCardStatusOpen,
			QuotationID: &quotation.ID,
		}

		return qf.jobCardRepo.Save(ctx, jobCard)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Quotation conversion failed: %s", err.Error())
		_ = qf.logQuotationAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionQuotationConverted, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("QUOTATION_CONVERT_FAILED", "Quotation conversion failed", err)
	}

	msg := fmt.Sprintf("Quotation %s converted to job card %s", quotation.QuoteNumber, jobCard.JobNumber)
	_ = qf.logQuotationAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionQuotationConverted, msg, true, nil, metadata)

	return &dto.ConvertQuotationResponse{
		JobCardUUID: jobCard.UUID.String(),
		JobNumber:   jobCard.JobNumber,
		QuoteNumber: quotation.QuoteNumber,
		CreatedAt:   jobCard.CreatedAt.Format(time.RFC3339),
	}, nil
}

// GetQuotation returns one quotation scoped to the workshop
func (qf *QuotationFlowImpl) GetQuotation(ctx context.Context, workshopID uint, quotationUUID string) (*dto.QuotationDTO, error) {
	quotation, err := qf.findWorkshopQuotation(ctx, workshopID, quotationUUID)
	if err != nil {
		return nil, NewBusinessError("QUOTATION_GET_FAILED", "Quotation lookup failed", err)
	}

	result := ToQuotationDTO(*quotation)
	return &result, nil
}

// ListQuotations returns a page of the workshop's quotations
func (qf *QuotationFlowImpl) ListQuotations(ctx context.Context, request *dto.ListQuotationsRequest) (*dto.ListQuotationsResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	quotations, err := qf.quotationRepo.ListByWorkshop(ctx, request.WorkshopID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("QUOTATION_LIST_FAILED", "Quotation listing failed", err)
	}

	total, err := qf.quotationRepo.Count(ctx, models.QuotationFilter{WorkshopID: &request.WorkshopID})
	if err != nil {
		return nil, NewBusinessError("QUOTATION_LIST_FAILED", "Quotation listing failed", err)
	}

	items := make([]dto.QuotationDTO, 0, len(quotations))
	for _, q := range quotations {
		items = append(items, ToQuotationDTO(*q))
	}

	return &dto.ListQuotationsResponse{Items: items, Total: total}, nil
}

func (qf *QuotationFlowImpl) findWorkshopQuotation(ctx context.Context, workshopID uint, quotationUUID string) (*models.Quotation, error) {
	quotation, err := qf.quotationRepo.ByUUID(ctx, quotationUUID)
	if err != nil {
		return nil, err
	}
	if quotation == nil || quotation.WorkshopID != workshopID {
		return nil, ErrQuotationNotFound
	}
	return quotation, nil
}

func (qf *QuotationFlowImpl) logQuotationAction(ctx context.Context, workshopID uint, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
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

	return qf.auditRepo.Save(ctx, audit)
}
