// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/pitline/pitline/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// SequenceCounterRepository defines operations for the per-workshop reference
// number allocator. Allocate is the single public minting operation: it lazily
// creates the (workshop, code) counter at value 1, or atomically increments an
// existing one, always inside the transaction carried by ctx when present.
type SequenceCounterRepository interface {
	Repository[models.SequenceCounter, models.SequenceCounterFilter]
	Allocate(ctx context.Context, workshopID uint, code string, prefix, description *string) (*models.SequenceCounter, error)
	ByWorkshopAndCode(ctx context.Context, workshopID uint, code string) (*models.SequenceCounter, error)
	ListByWorkshop(ctx context.Context, workshopID uint) ([]*models.SequenceCounter, error)
	UpdateSettings(ctx context.Context, counter models.SequenceCounter) error
}

// WorkshopRepository defines operations for workshops (tenants)
type WorkshopRepository interface {
	Repository[models.Workshop, models.WorkshopFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Workshop, error)
	ByEmail(ctx context.Context, email string) (*models.Workshop, error)
	Update(ctx context.Context, workshop models.Workshop) error
}

// UserRepository defines operations for staff users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	ListByWorkshop(ctx context.Context, workshopID uint) ([]*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

// AdminRepository defines operations for platform admins
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error
}

// CustomerRepository defines operations for workshop customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Customer, error)
	ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.Customer, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*models.Customer, error)
	Update(ctx context.Context, customer models.Customer) error
}

// VehicleRepository defines operations for vehicles
type VehicleRepository interface {
	Repository[models.Vehicle, models.VehicleFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Vehicle, error)
	ByPlateNumber(ctx context.Context, workshopID uint, plate string) (*models.Vehicle, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]*models.Vehicle, error)
	Update(ctx context.Context, vehicle models.Vehicle) error
}

// JobCardRepository defines operations for job cards
type JobCardRepository interface {
	Repository[models.JobCard, models.JobCardFilter]
	ByUUID(ctx context.Context, uuid string) (*models.JobCard, error)
	ByJobNumber(ctx context.Context, workshopID uint, jobNumber string) (*models.JobCard, error)
	ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.JobCard, error)
	Update(ctx context.Context, jobCard models.JobCard) error
}

// QuotationRepository defines operations for quotations
type QuotationRepository interface {
	Repository[models.Quotation, models.QuotationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Quotation, error)
	ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.Quotation, error)
	Update(ctx context.Context, quotation models.Quotation) error
}

// InvoiceRepository defines operations for receivable and payable invoices
type InvoiceRepository interface {
	Repository[models.Invoice, models.InvoiceFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Invoice, error)
	ListByWorkshop(ctx context.Context, workshopID uint, kind *models.InvoiceKind, limit, offset int) ([]*models.Invoice, error)
	Update(ctx context.Context, invoice models.Invoice) error
	SumOutstanding(ctx context.Context, workshopID uint, kind models.InvoiceKind) (float64, error)
	RevenueByMonth(ctx context.Context, workshopID uint, since time.Time) ([]MonthlyRevenue, error)
}

// ReceiptRepository defines operations for customer receipts
type ReceiptRepository interface {
	Repository[models.Receipt, models.ReceiptFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Receipt, error)
	ListByInvoice(ctx context.Context, invoiceID uint) ([]*models.Receipt, error)
}

// PaymentRepository defines operations for supplier payments
type PaymentRepository interface {
	Repository[models.Payment, models.PaymentFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID uint) ([]*models.Payment, error)
}

// SupplierRepository defines operations for suppliers
type SupplierRepository interface {
	Repository[models.Supplier, models.SupplierFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Supplier, error)
	ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.Supplier, error)
	Update(ctx context.Context, supplier models.Supplier) error
}

// InventoryItemRepository defines operations for inventory items
type InventoryItemRepository interface {
	Repository[models.InventoryItem, models.InventoryItemFilter]
	ByUUID(ctx context.Context, uuid string) (*models.InventoryItem, error)
	BySKU(ctx context.Context, workshopID uint, sku string) (*models.InventoryItem, error)
	ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.InventoryItem, error)
	Update(ctx context.Context, item models.InventoryItem) error
	AdjustQuantity(ctx context.Context, workshopID uint, sku string, delta float64) error
	StockValue(ctx context.Context, workshopID uint) (float64, error)
}

// StockDocumentRepository defines operations for receiving and issue notes
type StockDocumentRepository interface {
	Repository[models.StockDocument, models.StockDocumentFilter]
	ByUUID(ctx context.Context, uuid string) (*models.StockDocument, error)
	ListByWorkshop(ctx context.Context, workshopID uint, kind *models.StockDocumentKind, limit, offset int) ([]*models.StockDocument, error)
}

// CurrencyRepository defines operations for workshop currencies
type CurrencyRepository interface {
	Repository[models.Currency, models.CurrencyFilter]
	ByCode(ctx context.Context, workshopID uint, code string) (*models.Currency, error)
	ListByWorkshop(ctx context.Context, workshopID uint) ([]*models.Currency, error)
	Update(ctx context.Context, currency models.Currency) error
}

// EmployeeRepository defines operations for HR employee records
type EmployeeRepository interface {
	Repository[models.Employee, models.EmployeeFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Employee, error)
	ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.Employee, error)
	Update(ctx context.Context, employee models.Employee) error
}

// AttachmentRepository defines operations for job-card attachments
type AttachmentRepository interface {
	Repository[models.Attachment, models.AttachmentFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Attachment, error)
	ListByJobCard(ctx context.Context, jobCardID uint) ([]*models.Attachment, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByWorkshop(ctx context.Context, workshopID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}

// MonthlyRevenue is one row of the revenue-by-month report
type MonthlyRevenue struct {
	Month time.Time `json:"month"`
	Total float64   `json:"total"`
	Count int64     `json:"count"`
}
