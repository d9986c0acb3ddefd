package dto

// CreateInventoryItemRequest represents the request to register a part
type CreateInventoryItemRequest struct {
	WorkshopID   uint     `json:"-"`
	SKU          string   `json:"sku" validate:"required,max=64"`
	Name         string   `json:"name" validate:"required,max=255"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Unit         string   `json:"unit,omitempty" validate:"omitempty,max=16"`
	UnitCost     float64  `json:"unit_cost" validate:"gte=0"`
	UnitPrice    float64  `json:"unit_price" validate:"gte=0"`
	ReorderLevel *float64 `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`
}

// UpdateInventoryItemRequest represents the request to edit a part
type UpdateInventoryItemRequest struct {
	UUID         string   `json:"-"`
	WorkshopID   uint     `json:"-"`
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Unit         *string  `json:"unit,omitempty" validate:"omitempty,max=16"`
	UnitCost     *float64 `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
	UnitPrice    *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	ReorderLevel *float64 `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// InventoryItemDTO represents a part in responses
type InventoryItemDTO struct {
	ID             uint     `json:"id"`
	UUID           string   `json:"uuid"`
	SKU            string   `json:"sku"`
	Name           string   `json:"name"`
	Description    *string  `json:"description,omitempty"`
	Unit           string   `json:"unit"`
	UnitCost       float64  `json:"unit_cost"`
	UnitPrice      float64  `json:"unit_price"`
	QuantityOnHand float64  `json:"quantity_on_hand"`
	ReorderLevel   *float64 `json:"reorder_level,omitempty"`
	IsActive       *bool    `json:"is_active"`
	CreatedAt      string   `json:"created_at"`
}

// ListInventoryItemsRequest represents the request to list parts
type ListInventoryItemsRequest struct {
	WorkshopID uint `json:"-"`
	Page       int  `json:"-" validate:"omitempty,min=1"`
	PageSize   int  `json:"-" validate:"omitempty,min=1,max=100"`
}

// ListInventoryItemsResponse represents the paginated parts list
type ListInventoryItemsResponse struct {
	Items []InventoryItemDTO `json:"items"`
	Total int64              `json:"total"`
}

// StockLineDTO is one item movement inside a stock document payload
type StockLineDTO struct {
	ItemSKU  string  `json:"item_sku" validate:"required,max=64"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	UnitCost float64 `json:"unit_cost,omitempty" validate:"gte=0"`
}

// CreateReceivingNoteRequest represents the request to book stock in
type CreateReceivingNoteRequest struct {
	WorkshopID   uint           `json:"-"`
	UserID       uint           `json:"-"`
	SupplierUUID *string        `json:"supplier_uuid,omitempty" validate:"omitempty,uuid4"`
	Lines        []StockLineDTO `json:"lines" validate:"required,min=1,dive"`
	Notes        *string        `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// CreateIssueNoteRequest represents the request to book stock out
type CreateIssueNoteRequest struct {
	WorkshopID  uint           `json:"-"`
	UserID      uint           `json:"-"`
	JobCardUUID *string        `json:"job_card_uuid,omitempty" validate:"omitempty,uuid4"`
	Lines       []StockLineDTO `json:"lines" validate:"required,min=1,dive"`
	Notes       *string        `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// StockDocumentResponse represents the response after booking a movement
type StockDocumentResponse struct {
	UUID           string `json:"uuid"`
	DocumentNumber string `json:"document_number" example:"GRN-00001"`
	Kind           string `json:"kind"`
	CreatedAt      string `json:"created_at"`
}

// StockDocumentDTO represents a stock document in listings
type StockDocumentDTO struct {
	ID             uint           `json:"id"`
	UUID           string         `json:"uuid"`
	DocumentNumber string         `json:"document_number"`
	Kind           string         `json:"kind"`
	SupplierID     *uint          `json:"supplier_id,omitempty"`
	JobCardID      *uint          `json:"job_card_id,omitempty"`
	Lines          []StockLineDTO `json:"lines"`
	Notes          *string        `json:"notes,omitempty"`
	CreatedAt      string         `json:"created_at"`
}

// ListStockDocumentsRequest represents the request to list stock documents
type ListStockDocumentsRequest struct {
	WorkshopID uint    `json:"-"`
	Kind       *string `json:"-" validate:"omitempty,oneof=receiving issue"`
	Page       int     `json:"-" validate:"omitempty,min=1"`
	PageSize   int     `json:"-" validate:"omitempty,min=1,max=100"`
}

// ListStockDocumentsResponse represents the paginated stock document list
type ListStockDocumentsResponse struct {
	Items []StockDocumentDTO `json:"items"`
	Total int64              `json:"total"`
}
