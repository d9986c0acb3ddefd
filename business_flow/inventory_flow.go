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

// InventoryFlow handles the parts catalog and stock movements. Quantities
// only ever change through receiving and issue notes; item edits never touch
// quantity_on_hand.
type InventoryFlow interface {
	CreateItem(ctx context.Context, request *dto.CreateInventoryItemRequest, metadata *ClientMetadata) (*dto.InventoryItemDTO, error)
	UpdateItem(ctx context.Context, request *dto.UpdateInventoryItemRequest, metadata *ClientMetadata) (*dto.InventoryItemDTO, error)
	GetItem(ctx context.Context, workshopID uint, itemUUID string) (*dto.InventoryItemDTO, error)
	ListItems(ctx context.Context, request *dto.ListInventoryItemsRequest) (*dto.ListInventoryItemsResponse, error)
	CreateReceivingNote(ctx context.Context, request *dto.CreateReceivingNoteRequest, metadata *ClientMetadata) (*dto.StockDocumentResponse, error)
	CreateIssueNote(ctx context.Context, request *dto.CreateIssueNoteRequest, metadata *ClientMetadata) (*dto.StockDocumentResponse, error)
	ListStockDocuments(ctx context.Context, request *dto.ListStockDocumentsRequest) (*dto.ListStockDocumentsResponse, error)
}

// InventoryFlowImpl implements the inventory business flow
type InventoryFlowImpl struct {
	itemRepo     repository.InventoryItemRepository
	stockDocRepo repository.StockDocumentRepository
	supplierRepo repository.SupplierRepository
	jobCardRepo  repository.JobCardRepository
	counterRepo  repository.SequenceCounterRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewInventoryFlow creates a new inventory flow instance
func NewInventoryFlow(
	itemRepo repository.InventoryItemRepository,
	stockDocRepo repository.StockDocumentRepository,
	supplierRepo repository.SupplierRepository,
	jobCardRepo repository.JobCardRepository,
	counterRepo repository.SequenceCounterRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) InventoryFlow {
	return &InventoryFlowImpl{
		itemRepo:     itemRepo,
		stockDocRepo: stockDocRepo,
		supplierRepo: supplierRepo,
		jobCardRepo:  jobCardRepo,
		counterRepo:  counterRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// CreateItem registers a new part in the workshop's catalog
func (invf *InventoryFlowImpl) CreateItem(ctx context.Context, request *dto.CreateInventoryItemRequest, metadata *ClientMetadata) (*dto.InventoryItemDTO, error) {
	var item *models.InventoryItem

	err := repository.WithTransaction(ctx, invf.db, func(ctx context.Context) error {
		existing, err := invf.itemRepo.BySKU(ctx, request.WorkshopID, request.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrSKUAlreadyExists
		}

		unit := request.Unit
		if unit == "" {
			unit = "pc"
		}

		item = &models.InventoryItem{
			UUID:         uuid.New(),
			WorkshopID:   request.WorkshopID,
			SKU:          request.SKU,
			Name:         request.Name,
			Description:  request.Description,
			Unit:         unit,
			UnitCost:     request.UnitCost,
			UnitPrice:    request.UnitPrice,
			ReorderLevel: request.ReorderLevel,
		}

		return invf.itemRepo.Save(ctx, item)
	})

	if err != nil {
		return nil, NewBusinessError("ITEM_CREATE_FAILED", "Inventory item creation failed", err)
	}

	result := ToInventoryItemDTO(*item)
	return &result, nil
}

// UpdateItem edits a part's catalog fields. Stock on hand is out of reach
// here; only movements change it.
func (invf *InventoryFlowImpl) UpdateItem(ctx context.Context, request *dto.UpdateInventoryItemRequest, metadata *ClientMetadata) (*dto.InventoryItemDTO, error) {
	var updated *models.InventoryItem

	err := repository.WithTransaction(ctx, invf.db, func(ctx context.Context) error {
		item, err := invf.findWorkshopItem(ctx, request.WorkshopID, request.UUID)
		if err != nil {
			return err
		}

		if request.Name != nil {
			item.Name = *request.Name
		}
		if request.Description != nil {
			item.Description = request.Description
		}
		if request.Unit != nil {
			item.Unit = *request.Unit
		}
		if request.UnitCost != nil {
			item.UnitCost = *request.UnitCost
		}
		if request.UnitPrice != nil {
			item.UnitPrice = *request.UnitPrice
		}
		if request.ReorderLevel != nil {
			item.ReorderLevel = request.ReorderLevel
		}
		if request.IsActive != nil {
			item.IsActive = request.IsActive
		}

		if err := invf.itemRepo.Update(ctx, *item); err != nil {
			return err
		}

		updated = item
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("ITEM_UPDATE_FAILED", "Inventory item update failed", err)
	}

	result := ToInventoryItemDTO(*updated)
	return &result, nil
}

// GetItem returns one part scoped to the workshop
func (invf *InventoryFlowImpl) GetItem(ctx context.Context, workshopID uint, itemUUID string) (*dto.InventoryItemDTO, error) {
	item, err := invf.findWorkshopItem(ctx, workshopID, itemUUID)
	if err != nil {
		return nil, NewBusinessError("ITEM_GET_FAILED", "Inventory item lookup failed", err)
	}

	result := ToInventoryItemDTO(*item)
	return &result, nil
}

// ListItems returns a page of the workshop's parts catalog
func (invf *InventoryFlowImpl) ListItems(ctx context.Context, request *dto.ListInventoryItemsRequest) (*dto.ListInventoryItemsResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, err := invf.itemRepo.ListByWorkshop(ctx, request.WorkshopID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("ITEM_LIST_FAILED", "Inventory listing failed", err)
	}

	total, err := invf.itemRepo.Count(ctx, models.InventoryItemFilter{WorkshopID: &request.WorkshopID})
	if err != nil {
		return nil, NewBusinessError("ITEM_LIST_FAILED", "Inventory listing failed", err)
	}

	dtos := make([]dto.InventoryItemDTO, 0, len(items))
	for _, it := range items {
		dtos = append(dtos, ToInventoryItemDTO(*it))
	}

	return &dto.ListInventoryItemsResponse{Items: dtos, Total: total}, nil
}

// CreateReceivingNote books stock in. Every line's quantity is added to its
// item, the document number is minted, and the whole movement is one
// transaction: one bad SKU rolls back everything.
func (invf *InventoryFlowImpl) CreateReceivingNote(ctx context.Context, request *dto.CreateReceivingNoteRequest, metadata *ClientMetadata) (*dto.StockDocumentResponse, error) {
	if len(request.Lines) == 0 {
		return nil, NewBusinessError("RECEIVING_NOTE_FAILED", "Receiving note failed", ErrStockLinesRequired)
	}

	var doc *models.StockDocument

	err := repository.WithTransaction(ctx, invf.db, func(ctx context.Context) error {
		var supplierID *uint
		if request.SupplierUUID != nil {
			supplier, err := invf.supplierRepo.ByUUID(ctx, *request.SupplierUUID)
			if err != nil {
				return err
			}
			if supplier == nil || supplier.WorkshopID != request.WorkshopID {
				return ErrSupplierNotFound
			}
			supplierID = &supplier.ID
		}

		for _, line := range request.Lines {
			if err := invf.itemRepo.AdjustQuantity(ctx, request.WorkshopID, line.ItemSKU, line.Quantity); err != nil {
				return err
			}
		}

		counter, err := invf.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodeReceivingNote, utils.ToPtr(models.CounterCodeReceivingNote), nil)
		if err != nil {
			return err
		}

		doc = &models.StockDocument{
			UUID:           uuid.New(),
			WorkshopID:     request.WorkshopID,
			DocumentNumber: counter.Reference(),
			Kind:           models.StockDocumentKindReceiving,
			SupplierID:     supplierID,
			Lines:          ToStockLines(request.Lines),
			Notes:          request.Notes,
			CreatedByID:    &request.UserID,
		}

		return invf.stockDocRepo.Save(ctx, doc)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Receiving note failed: %s", err.Error())
		_ = invf.logStockAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionStockReceived, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("RECEIVING_NOTE_FAILED", "Receiving note failed", err)
	}

	msg := fmt.Sprintf("Stock received: %s", doc.DocumentNumber)
	_ = invf.logStockAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionStockReceived, msg, true, nil, metadata)

	return toStockDocumentResponse(doc), nil
}

// CreateIssueNote books stock out, optionally against a job card. A line
// that would drive an item negative fails the whole movement.
func (invf *InventoryFlowImpl) CreateIssueNote(ctx context.Context, request *dto.CreateIssueNoteRequest, metadata *ClientMetadata) (*dto.StockDocumentResponse, error) {
	if len(request.Lines) == 0 {
		return nil, NewBusinessError("ISSUE_NOTE_FAILED", "Issue note failed", ErrStockLinesRequired)
	}

	var doc *models.StockDocument

	err := repository.WithTransaction(ctx, invf.db, func(ctx context.Context) error {
		var jobCardID *uint
		if request.JobCardUUID != nil {
			jobCard, err := invf.jobCardRepo.ByUUID(ctx, *request.JobCardUUID)
			if err != nil {
				return err
			}
			if jobCard == nil || jobCard.WorkshopID != request.WorkshopID {
				return ErrJobCardNotFound
			}
			jobCardID = &jobCard.ID
		}

		for _, line := range request.Lines {
			if err := invf.itemRepo.AdjustQuantity(ctx, request.WorkshopID, line.ItemSKU, -line.Quantity); err != nil {
				return err
			}
		}

		counter, err := invf.counterRepo.Allocate(ctx, request.WorkshopID, models.CounterCodeIssueNote, utils.ToPtr(models.CounterCodeIssueNote), nil)
		if err != nil {
			return err
		}

		doc = &models.StockDocument{
			UUID:           uuid.New(),
			WorkshopID:     request.WorkshopID,
			DocumentNumber: counter.Reference(),
			Kind:           models.StockDocumentKindIssue,
			JobCardID:      jobCardID,
			Lines:          ToStockLines(request.Lines),
			Notes:          request.Notes,
			CreatedByID:    &request.UserID,
		}

		return invf.stockDocRepo.Save(ctx, doc)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Issue note failed: %s", err.Error())
		_ = invf.logStockAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionStockIssued, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("ISSUE_NOTE_FAILED", "Issue note failed", err)
	}

	msg := fmt.Sprintf("Stock issued: %s", doc.DocumentNumber)
	_ = invf.logStockAction(ctx, request.WorkshopID, &request.UserID, models.AuditActionStockIssued, msg, true, nil, metadata)

	return toStockDocumentResponse(doc), nil
}

// ListStockDocuments returns a page of the workshop's stock movements
func (invf *InventoryFlowImpl) ListStockDocuments(ctx context.Context, request *dto.ListStockDocumentsRequest) (*dto.ListStockDocumentsResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var kind *models.StockDocumentKind
	filter := models.StockDocumentFilter{WorkshopID: &request.WorkshopID}
	if request.Kind != nil {
		k := models.StockDocumentKind(*request.Kind)
		kind = &k
		filter.Kind = &k
	}

	docs, err := invf.stockDocRepo.ListByWorkshop(ctx, request.WorkshopID, kind, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("STOCK_DOC_LIST_FAILED", "Stock document listing failed", err)
	}

	total, err := invf.stockDocRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("STOCK_DOC_LIST_FAILED", "Stock document listing failed", err)
	}

	items := make([]dto.StockDocumentDTO, 0, len(docs))
	for _, d := range docs {
		items = append(items, ToStockDocumentDTO(*d))
	}

	return &dto.ListStockDocumentsResponse{Items: items, Total: total}, nil
}

func (invf *InventoryFlowImpl) findWorkshopItem(ctx context.Context, workshopID uint, itemUUID string) (*models.InventoryItem, error) {
	item, err := invf.itemRepo.ByUUID(ctx, itemUUID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.WorkshopID != workshopID {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (invf *InventoryFlowImpl) logStockAction(ctx context.Context, workshopID uint, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
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

	return invf.auditRepo.Save(ctx, audit)
}

func toStockDocumentResponse(doc *models.StockDocument) *dto.StockDocumentResponse {
	return &dto.StockDocumentResponse{
		UUID:           doc.UUID.String(),
		DocumentNumber: doc.DocumentNumber,
		Kind:           string(doc.Kind),
		CreatedAt:      doc.CreatedAt.Format(time.RFC3339),
	}
}
