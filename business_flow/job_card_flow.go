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

// JobCardFlow handles the work order lifecycle: opening a job card, editing
// it, and walking it through its status machine.
type JobCardFlow interface {
	CreateJobCard(ctx context.Context, request *dto.CreateJobCardRequest, metadata *ClientMetadata) (*dto.CreateJobCardResponse, error)
	UpdateJobCard(ctx context.Context, request *dto.UpdateJobCardRequest, metadata *ClientMetadata) (*dto.JobCardDTO, error)
	ChangeStatus(ctx context.Context, request *dto.ChangeJobCardStatusRequest, metadata *ClientMetadata) (*dto.JobCardDTO, error)
	GetJobCard(ctx context.Context, workshopID uint, jobCardUUID string) (*dto.JobCardDTO, error)
	ListJobCards(ctx context.Context, request *dto.ListJobCardsRequest) (*dto.ListJobCardsResponse, error)
}

// JobCardFlowImpl implements the job card business flow
type JobCardFlowImpl struct {
	jobCardRepo  repository.JobCardRepository
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
	counterRepo  repository.SequenceCounterRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewJobCardFlow creates a new job card flow instance
func NewJobCardFlow(
	jobCardRepo repository.JobCardRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	counterRepo repository.SequenceCounterRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) JobCardFlow {
	return &JobCardFlowImpl{
		jobCardRepo:  jobCardRepo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		counterRepo:  counterRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// CreateJobCard opens a job card for a customer's vehicle. The job number is
// minted by the sequence allocator inside the same transaction as the insert,
// so a failed insert never burns a number.
func (jf *JobCardFlowImpl) CreateJobCard(ctx context.Context, request *dto.CreateJobCardRequest, metadata *ClientMetadata) (*dto.CreateJobCardResponse, error) {
	var jobCard *models.JobCard

	err := repository.WithTransaction(ctx, jf.db, func(ctx context.Context) error {
		customer, err := jf.customerRepo.ByUUID(ctx, request.CustomerUUID)
		if err != nil {
			return err
		}
		if customer == nil || customer.WorkshopID != request.WorkshopID {
			return ErrCustomerNotFound
		}

		vehicle, err := jf.vehicleRepo.ByUUID(ctx, request.VehicleUUID)
		if err != nil {
			return err
		}
		if vehicle == nil || vehicle.WorkshopID != request.WorkshopID {
			return ErrVehicleNotFound
		}
		if vehicle.CustomerID != customer.ID {
			return ErrVehicleOwnerMismatch
		}

		counter, err := jf.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodeJobCard, utils.ToPtr(models.CounterCodeJobCard), nil)
		if err != nil {
			return err
		}

		jobCard = &models.JobCard{
			UUID:       uuid.New(),
			WorkshopID: request.WorkshopID,
			JobNumber:  counter.Reference(),
			CustomerID: customer.ID,
			VehicleID:  vehicle.ID,
			Complaint:  request.Complaint,
			OdometerIn: request.OdometerIn,
			Lines:      ToDocumentLines(request.Lines),
			Status:     models.JobCardStatusOpen,
			PromisedAt: request.PromisedAt,
		}

		return jf.jobCardRepo.Save(ctx, jobCard)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Job card creation failed: %s", err.Error())
		_ = jf.logJobCardAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionJobCardCreated, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("JOB_CARD_CREATE_FAILED", "Job card creation failed", err)
	}

	msg := fmt.Sprintf("Job card created: %s", jobCard.JobNumber)
	_ = jf.logJobCardAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionJobCardCreated, msg, true, nil, metadata)

	return &dto.CreateJobCardResponse{
		UUID:      jobCard.UUID.String(),
		JobNumber: jobCard.JobNumber,
		Status:    jobCard.Status.String(),
		CreatedAt: jobCard.CreatedAt.Format(time.RFC3339),
	}, nil
}

// UpdateJobCard edits a job card that has not yet been invoiced
func (jf *JobCardFlowImpl) UpdateJobCard(ctx context.Context, request *dto.UpdateJobCardRequest, metadata *ClientMetadata) (*dto.JobCardDTO, error) {
	var updated *models.JobCard

	err := repository.WithTransaction(ctx, jf.db, func(ctx context.Context) error {
		jobCard, err := jf.findWorkshopJobCard(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		// Invoiced and later statuses freeze the card's content
		if jobCard.Status != models.JobCardStatusOpen && jobCard.Status != models.JobCardStatusInProgress &&
			jobCard.Status != models.JobCardStatusCompleted {
			return ErrJobCardAlreadyInvoiced
		}

		if request.Diagnosis != nil {
			jobCard.Diagnosis = request.Diagnosis
		}
		if request.Lines != nil {
			jobCard.Lines = ToDocumentLines(request.Lines)
		}
		if request.AssignedTo != nil {
			jobCard.AssignedToID = request.AssignedTo
		}
		if request.PromisedAt != nil {
			jobCard.PromisedAt = request.PromisedAt
		}

		if err := jf.jobCardRepo.Update(ctx, *jobCard); err != nil {
			return err
		}

		updated = jobCard
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("JOB_CARD_UPDATE_FAILED", "Job card update failed", err)
	}

	result := ToJobCardDTO(*updated)
	return &result, nil
}

// ChangeStatus moves the job card along its lifecycle. Transitions are
// validated against the status machine; completing a card stamps CompletedAt.
func (jf *JobCardFlowImpl) ChangeStatus(ctx context.Context, request *dto.ChangeJobCardStatusRequest, metadata *ClientMetadata) (*dto.JobCardDTO, error) {
	next := models.JobCardStatus(request.Status)
	if !next.Valid() {
		return nil, NewBusinessError("JOB_CARD_STATUS_FAILED", "Job card status change failed", ErrInvalidStatusTransition)
	}

	var updated *models.JobCard
	var previous models.JobCardStatus

	err := repository.WithTransaction(ctx, jf.db, func(ctx context.Context) error {
		jobCard, err := jf.findWorkshopJobCard(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		previous = jobCard.Status
		if !jobCard.Status.CanTransitionTo(next) {
			return ErrInvalidStatusTransition
		}

		jobCard.Status = next
		if next == models.JobCardStatusCompleted {
			jobCard.CompletedAt = utils.UTCNowPtr()
		}

		if err := jf.jobCardRepo.Update(ctx, *jobCard); err != nil {
			return err
		}

		updated = jobCard
		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Job card status change failed: %s", err.Error())
		_ = jf.logJobCardAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionJobCardStatusChanged, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("JOB_CARD_STATUS_FAILED", "Job card status change failed", err)
	}

	msg := fmt.Sprintf("Job card %s moved from %s to %s", updated.JobNumber, previous, next)
	_ = jf.logJobCardAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionJobCardStatusChanged, msg, true, nil, metadata)

	result := ToJobCardDTO(*updated)
	return &result, nil
}

// GetJobCard returns one job card scoped to the workshop
func (jf *JobCardFlowImpl) GetJobCard(ctx context.Context, workshopID uint, jobCardUUID string) (*dto.JobCardDTO, error) {
	jobCard, err := jf.findWorkshopJobCard(ctx, workshopID, jobCardUUID)
	if err != nil {
		return nil, NewBusinessError("JOB_CARD_GET_FAILED", "Job card lookup failed", err)
	}

	result := ToJobCardDTO(*jobCard)
	return &result, nil
}

// ListJobCards returns a page of the workshop's job cards, optionally
// filtered by status
func (jf *JobCardFlowImpl) ListJobCards(ctx context.Context, request *dto.ListJobCardsRequest) (*dto.ListJobCardsResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.JobCardFilter{WorkshopID: &request.WorkshopID}
	if request.Status != nil {
		status := models.JobCardStatus(*request.Status)
		filter.Status = &status
	}

	jobCards, err := jf.jobCardRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("JOB_CARD_LIST_FAILED", "Job card listing failed", err)
	}

	total, err := jf.jobCardRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("JOB_CARD_LIST_FAILED", "Job card listing failed", err)
	}

	items := make([]dto.JobCardDTO, 0, len(jobCards))
	for _, jc := range jobCards {
		items = append(items, ToJobCardDTO(*jc))
	}

	return &dto.ListJobCardsResponse{Items: items, Total: total}, nil
}

func (jf *JobCardFlowImpl) findWorkshopJobCard(ctx context.Context, workshopID uint, jobCardUUID string) (*models.JobCard, error) {
	jobCard, err := jf.jobCardRepo.ByUUID(ctx, jobCardUUID)
	if err != nil {
		return nil, err
	}
	if jobCard == nil || jobCard.WorkshopID != workshopID {
		return nil, ErrJobCardNotFound
	}
	return jobCard, nil
}

func (jf *JobCardFlowImpl) logJobCardAction(ctx context.Context, workshopID uint, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
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

	return jf.auditRepo.Save(ctx, audit)
}
