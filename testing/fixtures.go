// Package testing provides test utilities and database setup for testing the workshop ERP
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestWorkshop creates a workshop tenant with a unique email
func (tf *TestFixtures) CreateTestWorkshop() (*models.Workshop, error) {
	suffix := rand.Intn(1000000)

	workshop := &models.Workshop{
		UUID:         uuid.New(),
		Name:         fmt.Sprintf("Test Garage %d", suffix),
		Email:        fmt.Sprintf("garage.%d@example.com", suffix),
		CurrencyCode: "USD",
		TaxRate:      0.10,
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(workshop).Error; err != nil {
		return nil, fmt.Errorf("failed to create test workshop: %w", err)
	}
	return workshop, nil
}

// CreateTestUser creates an active staff user in the given workshop with
// password "TestPass123!"
func (tf *TestFixtures) CreateTestUser(workshopID uint, role string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := rand.Intn(1000000)

	user := &models.User{
		UUID:         uuid.New(),
		WorkshopID:   workshopID,
		FirstName:    "Test",
		LastName:     "User",
		Email:        fmt.Sprintf("user.%d.%d@example.com", workshopID, suffix),
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// CreateTestAdmin creates a platform admin with password "AdminPass123!"
func (tf *TestFixtures) CreateTestAdmin() (*models.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("AdminPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     fmt.Sprintf("admin_%d", rand.Intn(1000000)),
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return admin, nil
}

// CreateTestCustomer creates a customer in the given workshop
func (tf *TestFixtures) CreateTestCustomer(workshopID uint) (*models.Customer, error) {
	randomDigits := fmt.Sprintf("%07d", rand.Intn(10000000))

	customer := &models.Customer{
		UUID:       uuid.New(),
		WorkshopID: workshopID,
		FirstName:  "John",
		LastName:   "Doe",
		Mobile:     fmt.Sprintf("+1555%s", randomDigits),
		IsActive:   utils.ToPtr(true),
		CreatedAt:  utils.UTCNow(),
		UpdatedAt:  utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}
	return customer, nil
}

// CreateTestVehicle creates a vehicle owned by the given customer
func (tf *TestFixtures) CreateTestVehicle(workshopID, customerID uint) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		UUID:        uuid.New(),
		WorkshopID:  workshopID,
		CustomerID:  customerID,
		PlateNumber: fmt.Sprintf("TST-%04d", rand.Intn(10000)),
		Make:        "Toyota",
		Model:       "Corolla",
		Year:        utils.ToPtr(2020),
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(vehicle).Error; err != nil {
		return nil, fmt.Errorf("failed to create test vehicle: %w", err)
	}
	return vehicle, nil
}

// CreateTestSupplier creates a parts supplier in the given workshop
func (tf *TestFixtures) CreateTestSupplier(workshopID uint) (*models.Supplier, error) {
	supplier := &models.Supplier{
		UUID:       uuid.New(),
		WorkshopID: workshopID,
		Name:       fmt.Sprintf("Parts Supplier %d", rand.Intn(1000000)),
		IsActive:   utils.ToPtr(true),
		CreatedAt:  utils.UTCNow(),
		UpdatedAt:  utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to create test supplier: %w", err)
	}
	return supplier, nil
}

// CreateTestCurrency creates a currency for the given workshop
func (tf *TestFixtures) CreateTestCurrency(workshopID uint, code string, rate float64) (*models.Currency, error) {
	currency := &models.Currency{
		WorkshopID:   workshopID,
		Code:         code,
		Name:         code + " currency",
		ExchangeRate: rate,
		IsBase:       utils.ToPtr(rate == 1),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(currency).Error; err != nil {
		return nil, fmt.Errorf("failed to create test currency: %w", err)
	}
	return currency, nil
}

// CreateTestInventoryItem creates a stock item with the given on-hand quantity
func (tf *TestFixtures) CreateTestInventoryItem(workshopID uint, sku string, quantity float64) (*models.InventoryItem, error) {
	item := &models.InventoryItem{
		UUID:           uuid.New(),
		WorkshopID:     workshopID,
		SKU:            sku,
		Name:           "Test Part " + sku,
		Unit:           "pc",
		UnitCost:       10,
		UnitPrice:      25,
		QuantityOnHand: quantity,
		IsActive:       utils.ToPtr(true),
		CreatedAt:      utils.UTCNow(),
		UpdatedAt:      utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test inventory item: %w", err)
	}
	return item, nil
}

// CreateTestJobCard creates a job card with a single labor line in the given status
func (tf *TestFixtures) CreateTestJobCard(workshopID, customerID, vehicleID uint, status models.JobCardStatus) (*models.JobCard, error) {
	jobCard := &models.JobCard{
		UUID:       uuid.New(),
		WorkshopID: workshopID,
		JobNumber:  fmt.Sprintf("JCN-%05d", rand.Intn(100000)),
		CustomerID: customerID,
		VehicleID:  vehicleID,
		Complaint:  "Engine noise",
		Lines: models.DocumentLines{
			{Kind: models.LineKindLabor, Description: "Diagnosis", Quantity: 1, UnitPrice: 50},
		},
		Status:    status,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if status == models.JobCardStatusCompleted || status == models.JobCardStatusInvoiced {
		jobCard.CompletedAt = utils.UTCNowPtr()
	}

	if err := tf.DB.DB.Create(jobCard).Error; err != nil {
		return nil, fmt.Errorf("failed to create test job card: %w", err)
	}
	return jobCard, nil
}

// CreateTestInvoice creates a receivable invoice against the given customer
func (tf *TestFixtures) CreateTestInvoice(workshopID, customerID uint, grandTotal float64) (*models.Invoice, error) {
	invoice := &models.Invoice{
		UUID:          uuid.New(),
		WorkshopID:    workshopID,
		InvoiceNumber: fmt.Sprintf("INV-%05d", rand.Intn(100000)),
		Kind:          models.InvoiceKindReceivable,
		CustomerID:    &customerID,
		Lines: models.DocumentLines{
			{Kind: models.LineKindLabor, Description: "Service", Quantity: 1, UnitPrice: grandTotal},
		},
		Subtotal:     grandTotal,
		TaxAmount:    0,
		GrandTotal:   grandTotal,
		CurrencyCode: "USD",
		ExchangeRate: 1,
		Status:       models.InvoiceStatusIssued,
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to create test invoice: %w", err)
	}
	return invoice, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(workshopID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		WorkshopID:  workshopID,
		Action:      action,
		Description: &description,
		Success:     &success,
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}
	return audit, nil
}
