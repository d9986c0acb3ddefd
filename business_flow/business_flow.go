// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceInfo map[string]string `json:"device_info,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceInfo: make(map[string]string),
		Additional: make(map[string]string),
	}
}

// AddDeviceInfo adds device information to the metadata
func (cm *ClientMetadata) AddDeviceInfo(key, value string) {
	if cm.DeviceInfo == nil {
		cm.DeviceInfo = make(map[string]string)
	}
	cm.DeviceInfo[key] = value
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToUserInfo converts a user model to UserInfo for authentication responses
func ToUserInfo(user models.User) dto.UserInfo {
	return dto.UserInfo{
		ID:         user.ID,
		UUID:       user.UUID.String(),
		WorkshopID: user.WorkshopID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		IsActive:   user.IsActive,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}

func ToWorkshopDTO(workshop models.Workshop) dto.WorkshopDTO {
	d := dto.WorkshopDTO{
		ID:           workshop.ID,
		UUID:         workshop.UUID.String(),
		Name:         workshop.Name,
		Email:        workshop.Email,
		CurrencyCode: workshop.CurrencyCode,
		IsActive:     workshop.IsActive,
		CreatedAt:    workshop.CreatedAt.Format(time.RFC3339),
	}
	if workshop.Phone != nil {
		d.Phone = *workshop.Phone
	}
	if workshop.Address != nil {
		d.Address = *workshop.Address
	}
	return d
}

func ToCustomerDTO(customer models.Customer) dto.CustomerDTO {
	return dto.CustomerDTO{
		ID:          customer.ID,
		UUID:        customer.UUID.String(),
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		CompanyName: customer.CompanyName,
		Mobile:      customer.Mobile,
		Email:       customer.Email,
		Address:     customer.Address,
		TaxNumber:   customer.TaxNumber,
		IsActive:    customer.IsActive,
		CreatedAt:   customer.CreatedAt.Format(time.RFC3339),
	}
}

func ToVehicleDTO(vehicle models.Vehicle) dto.VehicleDTO {
	return dto.VehicleDTO{
		ID:          vehicle.ID,
		UUID:        vehicle.UUID.String(),
		CustomerID:  vehicle.CustomerID,
		PlateNumber: vehicle.PlateNumber,
		VIN:         vehicle.VIN,
		Make:        vehicle.Make,
		Model:       vehicle.Model,
		Year:        vehicle.Year,
		Color:       vehicle.Color,
		Odometer:    vehicle.Odometer,
		CreatedAt:   vehicle.CreatedAt.Format(time.RFC3339),
	}
}

func ToJobCardDTO(jobCard models.JobCard) dto.JobCardDTO {
	return dto.JobCardDTO{
		ID:          jobCard.ID,
		UUID:        jobCard.UUID.String(),
		JobNumber:   jobCard.JobNumber,
		CustomerID:  jobCard.CustomerID,
		VehicleID:   jobCard.VehicleID,
		Complaint:   jobCard.Complaint,
		Diagnosis:   jobCard.Diagnosis,
		OdometerIn:  jobCard.OdometerIn,
		Lines:       ToLineItemDTOs(jobCard.Lines),
		Status:      jobCard.Status.String(),
		AssignedTo:  jobCard.AssignedToID,
		QuotationID: jobCard.QuotationID,
		PromisedAt:  jobCard.PromisedAt,
		CompletedAt: jobCard.CompletedAt,
		CreatedAt:   jobCard.CreatedAt.Format(time.RFC3339),
	}
}

func ToQuotationDTO(quotation models.Quotation) dto.QuotationDTO {
	return dto.QuotationDTO{
		ID:          quotation.ID,
		UUID:        quotation.UUID.String(),
		QuoteNumber: quotation.QuoteNumber,
		CustomerID:  quotation.CustomerID,
		VehicleID:   quotation.VehicleID,
		Lines:       ToLineItemDTOs(quotation.Lines),
		Subtotal:    quotation.Lines.Subtotal(),
		Status:      quotation.Status.String(),
		ValidUntil:  quotation.ValidUntil,
		Notes:       quotation.Notes,
		CreatedAt:   quotation.CreatedAt.Format(time.RFC3339),
	}
}

func ToInvoiceDTO(invoice models.Invoice) dto.InvoiceDTO {
	return dto.InvoiceDTO{
		ID:            invoice.ID,
		UUID:          invoice.UUID.String(),
		InvoiceNumber: invoice.InvoiceNumber,
		Kind:          string(invoice.Kind),
		CustomerID:    invoice.CustomerID,
		SupplierID:    invoice.SupplierID,
		JobCardID:     invoice.JobCardID,
		Lines:         ToLineItemDTOs(invoice.Lines),
		Subtotal:      invoice.Subtotal,
		TaxAmount:     invoice.TaxAmount,
		Discount:      invoice.Discount,
		GrandTotal:    invoice.GrandTotal,
		AmountPaid:    invoice.AmountPaid,
		Outstanding:   invoice.Outstanding(),
		CurrencyCode:  invoice.CurrencyCode,
		ExchangeRate:  invoice.ExchangeRate,
		Status:        string(invoice.Status),
		DueDate:       invoice.DueDate,
		CreatedAt:     invoice.CreatedAt.Format(time.RFC3339),
	}
}

func ToSupplierDTO(supplier models.Supplier) dto.SupplierDTO {
	return dto.SupplierDTO{
		ID:            supplier.ID,
		UUID:          supplier.UUID.String(),
		Name:          supplier.Name,
		ContactPerson: supplier.ContactPerson,
		Phone:         supplier.Phone,
		Email:         supplier.Email,
		Address:       supplier.Address,
		TaxNumber:     supplier.TaxNumber,
		IsActive:      supplier.IsActive,
		CreatedAt:     supplier.CreatedAt.Format(time.RFC3339),
	}
}

func ToInventoryItemDTO(item models.InventoryItem) dto.InventoryItemDTO {
	return dto.InventoryItemDTO{
		ID:             item.ID,
		UUID:           item.UUID.String(),
		SKU:            item.SKU,
		Name:           item.Name,
		Description:    item.Description,
		Unit:           item.Unit,
		UnitCost:       item.UnitCost,
		UnitPrice:      item.UnitPrice,
		QuantityOnHand: item.QuantityOnHand,
		ReorderLevel:   item.ReorderLevel,
		IsActive:       item.IsActive,
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
	}
}

func ToStockDocumentDTO(doc models.StockDocument) dto.StockDocumentDTO {
	return dto.StockDocumentDTO{
		ID:             doc.ID,
		UUID:           doc.UUID.String(),
		DocumentNumber: doc.DocumentNumber,
		Kind:           string(doc.Kind),
		SupplierID:     doc.SupplierID,
		JobCardID:      doc.JobCardID,
		Lines:          ToStockLineDTOs(doc.Lines),
		Notes:          doc.Notes,
		CreatedAt:      doc.CreatedAt.Format(time.RFC3339),
	}
}

func ToCurrencyDTO(currency models.Currency) dto.CurrencyDTO {
	return dto.CurrencyDTO{
		ID:           currency.ID,
		Code:         currency.Code,
		Name:         currency.Name,
		Symbol:       currency.Symbol,
		ExchangeRate: currency.ExchangeRate,
		IsBase:       currency.IsBase,
		IsActive:     currency.IsActive,
	}
}

func ToEmployeeDTO(employee models.Employee) dto.EmployeeDTO {
	return dto.EmployeeDTO{
		ID:          employee.ID,
		UUID:        employee.UUID.String(),
		StaffNumber: employee.StaffNumber,
		FirstName:   employee.FirstName,
		LastName:    employee.LastName,
		Position:    employee.Position,
		Mobile:      employee.Mobile,
		Email:       employee.Email,
		Salary:      employee.Salary,
		HiredAt:     employee.HiredAt,
		LeftAt:      employee.LeftAt,
		IsActive:    employee.IsActive,
		CreatedAt:   employee.CreatedAt.Format(time.RFC3339),
	}
}

func ToCounterDTO(counter models.SequenceCounter) dto.CounterDTO {
	return dto.CounterDTO{
		ID:          counter.ID,
		Code:        counter.Code,
		Description: counter.Description,
		Prefix:      counter.Prefix,
		Separator:   counter.Separator,
		Value:       counter.Value,
		Length:      counter.Length,
		Status:      counter.Status,
		NextNumber:  models.FormatReference(counter.Prefix, counter.Separator, counter.Value+1, counter.Length),
	}
}

func ToAttachmentDTO(attachment models.Attachment) dto.AttachmentDTO {
	return dto.AttachmentDTO{
		ID:               attachment.ID,
		UUID:             attachment.UUID.String(),
		JobCardID:        attachment.JobCardID,
		OriginalFilename: attachment.OriginalFilename,
		SizeBytes:        attachment.SizeBytes,
		MimeType:         attachment.MimeType,
		HasThumbnail:     attachment.ThumbnailPath != nil,
		ThumbnailPath:    attachment.ThumbnailPath,
		CreatedAt:        attachment.CreatedAt.Format(time.RFC3339),
	}
}

// ToLineItemDTOs converts stored document lines to their response shape.
func ToLineItemDTOs(lines models.DocumentLines) []dto.LineItemDTO {
	out := make([]dto.LineItemDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.LineItemDTO{
			Kind:        l.Kind,
			Description: l.Description,
			ItemSKU:     l.ItemSKU,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
		})
	}
	return out
}

// ToDocumentLines converts request line items into stored document lines,
// computing the per-line total.
func ToDocumentLines(lines []dto.LineItemDTO) models.DocumentLines {
	out := make(models.DocumentLines, 0, len(lines))
	for _, l := range lines {
		line := models.DocumentLine{
			Kind:        l.Kind,
			Description: l.Description,
			ItemSKU:     l.ItemSKU,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
		}
		total := line.Amount()
		line.Total = &total
		out = append(out, line)
	}
	return out
}

func ToStockLineDTOs(lines models.StockLines) []dto.StockLineDTO {
	out := make([]dto.StockLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.StockLineDTO{
			ItemSKU:  l.ItemSKU,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		})
	}
	return out
}

func ToStockLines(lines []dto.StockLineDTO) models.StockLines {
	out := make(models.StockLines, 0, len(lines))
	for _, l := range lines {
		out = append(out, models.StockLine{
			ItemSKU:  l.ItemSKU,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		})
	}
	return out
}
