// Package testing provides test utilities and database setup for testing the workshop ERP
package testing

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
	"github.com/pitline/pitline/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDBConfig holds configuration for test database connections
type TestDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	SSLMode  string
}

// GetTestDBConfig loads test database configuration from environment variables
func GetTestDBConfig() *TestDBConfig {
	config := &TestDBConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvAsInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		SSLMode:  getEnv("TEST_DB_SSL_MODE", "disable"),
	}
	return config
}

// TestDB represents a test database instance
type TestDB struct {
	DB     *gorm.DB
	Name   string
	config *TestDBConfig
}

// SetupTestDB creates a new test database with a unique name and runs migrations
func SetupTestDB() (*TestDB, error) {
	config := GetTestDBConfig()

	// Generate unique database name using timestamp and random number
	dbName := fmt.Sprintf("pitline_test_%d_%d", time.Now().Unix(), rand.Intn(10000))

	// Connect to PostgreSQL server (without specific database)
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.SSLMode)

	adminDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Create test database
	err = adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", dbName)).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test database %s: %w", dbName, err)
	}

	// Close admin connection
	sqlDB, _ := adminDB.DB()
	sqlDB.Close()

	// Connect to the new test database
	testDSN := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, dbName, config.SSLMode)

	testDB, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database %s: %w", dbName, err)
	}

	// Create schema
	if err := runTestMigrations(testDB); err != nil {
		// Clean up on migration failure
		testDB.Exec("DROP DATABASE IF EXISTS " + dbName)
		return nil, fmt.Errorf("failed to create schema on test database %s: %w", dbName, err)
	}

	return &TestDB{
		DB:     testDB,
		Name:   dbName,
		config: config,
	}, nil
}

// TeardownTestDB drops the test database and closes connections
func (tdb *TestDB) TeardownTestDB() error {
	if tdb.DB == nil {
		return nil
	}

	// Close test database connection
	sqlDB, err := tdb.DB.DB()
	if err == nil {
		sqlDB.Close()
	}

	// Connect to PostgreSQL server to drop the test database
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s sslmode=%s",
		tdb.config.Host, tdb.config.Port, tdb.config.User, tdb.config.Password, tdb.config.SSLMode)

	adminDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Warning: failed to connect to PostgreSQL for cleanup: %v", err)
		return err
	}
	defer func() {
		sqlDB, _ := adminDB.DB()
		sqlDB.Close()
	}()

	// Force disconnect all connections to the test database
	err = adminDB.Exec(fmt.Sprintf(
		"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s' AND pid <> pg_backend_pid()",
		tdb.Name)).Error
	if err != nil {
		log.Printf("Warning: failed to terminate connections to test database %s: %v", tdb.Name, err)
	}

	// Drop the test database
	err = adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", tdb.Name)).Error
	if err != nil {
		log.Printf("Warning: failed to drop test database %s: %v", tdb.Name, err)
		return err
	}

	return nil
}

// ClearAllTables removes all data from tables while preserving structure
func (tdb *TestDB) ClearAllTables() error {
	// Order matters due to foreign key constraints
	tables := []string{
		"audit_log",
		"attachments",
		"receipts",
		"payments",
		"invoices",
		"stock_documents",
		"quotations",
		"job_cards",
		"inventory_items",
		"vehicles",
		"customers",
		"suppliers",
		"employees",
		"currencies",
		"sequence_counters",
		"users",
		"admins",
		"workshops",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// enumDefinitions are the Postgres enum types the models map onto. They must
// exist before AutoMigrate creates the tables.
var enumDefinitions = map[string][]string{
	"job_card_status_enum":     {"open", "in-progress", "completed", "invoiced", "closed", "cancelled"},
	"quotation_status_enum":    {"draft", "sent", "accepted", "rejected", "expired"},
	"invoice_kind_enum":        {"receivable", "payable"},
	"invoice_status_enum":      {"issued", "partially-paid", "paid", "void"},
	"stock_document_kind_enum": {"receiving", "issue"},
	"audit_action_enum": {
		models.AuditActionSignupCompleted,
		models.AuditActionLoginSuccessful,
		models.AuditActionLoginFailed,
		models.AuditActionJobCardCreated,
		models.AuditActionJobCardStatusChanged,
		models.AuditActionQuotationCreated,
		models.AuditActionQuotationConverted,
		models.AuditActionInvoiceIssued,
		models.AuditActionReceiptRecorded,
		models.AuditActionPaymentRecorded,
		models.AuditActionStockReceived,
		models.AuditActionStockIssued,
		models.AuditActionEmployeeCreated,
		models.AuditActionCounterUpdated,
	},
}

// runTestMigrations creates the enum types and all tables on a fresh
// test database
func runTestMigrations(db *gorm.DB) error {
	for name, values := range enumDefinitions {
		quoted := make([]string, 0, len(values))
		for _, v := range values {
			quoted = append(quoted, "'"+v+"'")
		}
		stmt := fmt.Sprintf(
			"DO $$ BEGIN CREATE TYPE %s AS ENUM (%s); EXCEPTION WHEN duplicate_object THEN NULL; END $$;",
			name, strings.Join(quoted, ", "))
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create enum type %s: %w", name, err)
		}
	}

	entities := []any{
		&models.Workshop{},
		&models.Admin{},
		&models.User{},
		&models.SequenceCounter{},
		&models.Currency{},
		&models.Customer{},
		&models.Vehicle{},
		&models.Employee{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.JobCard{},
		&models.Quotation{},
		&models.StockDocument{},
		&models.Invoice{},
		&models.Receipt{},
		&models.Payment{},
		&models.Attachment{},
		&models.AuditLog{},
	}

	if err := db.AutoMigrate(entities...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// TestWithDB is a helper function that sets up a test database, runs the test function, and cleans up
func TestWithDB(testFunc func(*TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return fmt.Errorf("failed to setup test database: %w", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			log.Printf("Warning: failed to cleanup test database: %v", cleanupErr)
		}
	}()

	return testFunc(testDB)
}

// CreateTestContext creates a context for testing
func CreateTestContext() context.Context {
	return context.Background()
}
