// Package main provides the main entry point for the Pitline workshop management system
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/pitline/pitline/app/handlers"
	"github.com/pitline/pitline/app/middleware"
	"github.com/pitline/pitline/app/router"
	"github.com/pitline/pitline/app/scheduler"
	"github.com/pitline/pitline/app/services"
	businessflow "github.com/pitline/pitline/business_flow"
	"github.com/pitline/pitline/config"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"github.com/pitline/pitline/utils"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Pitline application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Setup graceful shutdown
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger through a rotating file writer
// according to the logging configuration
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	default:
		log.SetOutput(rotator)
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Ensure the bootstrap platform admin exists
	if err := ensureBootstrapAdmin(db, cfg); err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	workshopRepo := repository.NewWorkshopRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	counterRepo := repository.NewSequenceCounterRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	jobCardRepo := repository.NewJobCardRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	itemRepo := repository.NewInventoryItemRepository(db)
	stockDocRepo := repository.NewStockDocumentRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	currencyRepo := repository.NewCurrencyRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Captcha service for admin
	captchaSvc, err := services.NewCaptchaServiceRotate(2*time.Minute, 15, 300)
	if err != nil {
		return nil, err
	}

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
		rc,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Log that services are initialized
	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	accessTokenTTLSeconds := int(cfg.JWT.AccessTokenTTL.Seconds())

	// Initialize flows
	loginFlow := businessflow.NewLoginFlow(
		userRepo,
		workshopRepo,
		auditRepo,
		tokenService,
		accessTokenTTLSeconds,
		db,
	)

	adminAuthFlow := businessflow.NewAdminAuthFlow(
		adminRepo,
		workshopRepo,
		userRepo,
		auditRepo,
		tokenService,
		captchaSvc,
		accessTokenTTLSeconds,
		db,
	)

	counterFlow := businessflow.NewCounterFlow(
		counterRepo,
		auditRepo,
		db,
	)

	customerFlow := businessflow.NewCustomerFlow(customerRepo, db)

	vehicleFlow := businessflow.NewVehicleFlow(
		vehicleRepo,
		customerRepo,
		db,
	)

	jobCardFlow := businessflow.NewJobCardFlow(
		jobCardRepo,
		customerRepo,
		vehicleRepo,
		counterRepo,
		auditRepo,
		db,
	)

	quotationFlow := businessflow.NewQuotationFlow(
		quotationRepo,
		jobCardRepo,
		customerRepo,
		vehicleRepo,
		counterRepo,
		auditRepo,
		db,
	)

	invoiceFlow := businessflow.NewInvoiceFlow(
		invoiceRepo,
		jobCardRepo,
		supplierRepo,
		workshopRepo,
		currencyRepo,
		receiptRepo,
		paymentRepo,
		counterRepo,
		auditRepo,
		db,
	)

	receiptFlow := businessflow.NewReceiptFlow(
		receiptRepo,
		invoiceRepo,
		counterRepo,
		auditRepo,
		db,
	)

	paymentFlow := businessflow.NewPaymentFlow(
		paymentRepo,
		invoiceRepo,
		counterRepo,
		auditRepo,
		db,
	)

	inventoryFlow := businessflow.NewInventoryFlow(
		itemRepo,
		stockDocRepo,
		supplierRepo,
		jobCardRepo,
		counterRepo,
		auditRepo,
		db,
	)

	supplierFlow := businessflow.NewSupplierFlow(supplierRepo, db)

	currencyFlow := businessflow.NewCurrencyFlow(currencyRepo, db)

	employeeFlow := businessflow.NewEmployeeFlow(
		employeeRepo,
		counterRepo,
		auditRepo,
		db,
	)

	attachmentFlow := businessflow.NewAttachmentFlow(
		attachmentRepo,
		jobCardRepo,
		&cfg.Uploads,
		db,
	)

	reportFlow := businessflow.NewReportFlow(
		jobCardRepo,
		invoiceRepo,
		itemRepo,
		rc,
		&cfg.Cache,
	)

	auditFlow := businessflow.NewAuditFlow(auditRepo)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(router.Handlers{
		Auth:       handlers.NewAuthHandler(loginFlow),
		Admin:      handlers.NewAdminHandler(adminAuthFlow),
		Customer:   handlers.NewCustomerHandler(customerFlow),
		Vehicle:    handlers.NewVehicleHandler(vehicleFlow),
		JobCard:    handlers.NewJobCardHandler(jobCardFlow),
		Attachment: handlers.NewAttachmentHandler(attachmentFlow),
		Quotation:  handlers.NewQuotationHandler(quotationFlow),
		Invoice:    handlers.NewInvoiceHandler(invoiceFlow),
		Settlement: handlers.NewSettlementHandler(receiptFlow, paymentFlow),
		Inventory:  handlers.NewInventoryHandler(inventoryFlow),
		Supplier:   handlers.NewSupplierHandler(supplierFlow),
		Currency:   handlers.NewCurrencyHandler(currencyFlow),
		Employee:   handlers.NewEmployeeHandler(employeeFlow),
		Counter:    handlers.NewCounterHandler(counterFlow),
		Report:     handlers.NewReportHandler(reportFlow),
		Audit:      handlers.NewAuditHandler(auditFlow),
	}, authMiddleware)

	// Start quotation expiry sweep (every 1 hour)
	sched := scheduler.NewQuotationExpiryScheduler(db, log.Default(), time.Hour)
	stopScheduler := sched.Start(context.Background())
	stopFuncs = append(stopFuncs, stopScheduler)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureBootstrapAdmin creates the configured platform admin account if no
// admin with that username exists yet. Without it a fresh deployment has no
// way to onboard the first workshop.
func ensureBootstrapAdmin(db *gorm.DB, cfg *config.ProductionConfig) error {
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		return nil
	}

	adminRepo := repository.NewAdminRepository(db)

	existing, err := adminRepo.ByUsername(context.Background(), cfg.Admin.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	admin := models.Admin{
		UUID:         uuid.New(),
		Username:     cfg.Admin.Username,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := adminRepo.Save(context.Background(), &admin); err != nil {
		return err
	}

	log.Printf("Bootstrap admin %q created", cfg.Admin.Username)
	return nil
}
