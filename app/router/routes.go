// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/app/handlers"
	"github.com/pitline/pitline/app/middleware"
	"github.com/pitline/pitline/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups every HTTP handler the router wires up
type Handlers struct {
	Auth       handlers.AuthHandlerInterface
	Admin      handlers.AdminHandlerInterface
	Customer   handlers.CustomerHandlerInterface
	Vehicle    handlers.VehicleHandlerInterface
	JobCard    handlers.JobCardHandlerInterface
	Attachment handlers.AttachmentHandlerInterface
	Quotation  handlers.QuotationHandlerInterface
	Invoice    handlers.InvoiceHandlerInterface
	Settlement handlers.SettlementHandlerInterface
	Inventory  handlers.InventoryHandlerInterface
	Supplier   handlers.SupplierHandlerInterface
	Currency   handlers.CurrencyHandlerInterface
	Employee   handlers.EmployeeHandlerInterface
	Counter    handlers.CounterHandlerInterface
	Report     handlers.ReportHandlerInterface
	Audit      handlers.AuditHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	handlers Handlers
	auth     *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, auth *middleware.AuthMiddleware) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Pitline API",
		ServerHeader: "Pitline",
		ErrorHandler: errorHandler,
		BodyLimit:    16 * 1024 * 1024, // attachments are capped separately per upload
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		handlers: h,
		auth:     auth,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))

	auth.Post("/login", r.handlers.Auth.Login)
	auth.Post("/refresh", r.handlers.Auth.RefreshToken)
	auth.Post("/logout", r.handlers.Auth.Logout)

	// Platform admin routes
	admin := api.Group("/admin")
	admin.Post("/captcha/init", r.handlers.Admin.InitCaptcha)
	admin.Post("/login", r.handlers.Admin.Login)

	adminProtected := admin.Group("", r.auth.AdminAuthenticate())
	adminProtected.Post("/workshops", r.handlers.Admin.CreateWorkshop)
	adminProtected.Get("/workshops", r.handlers.Admin.ListWorkshops)

	// Workshop staff routes
	protected := api.Group("", r.auth.Authenticate())

	protected.Post("/customers", r.handlers.Customer.Create)
	protected.Get("/customers", r.handlers.Customer.List)
	protected.Get("/customers/:uuid", r.handlers.Customer.Get)
	protected.Put("/customers/:uuid", r.handlers.Customer.Update)
	protected.Get("/customers/:uuid/vehicles", r.handlers.Vehicle.ListForCustomer)

	protected.Post("/vehicles", r.handlers.Vehicle.Create)
	protected.Get("/vehicles/:uuid", r.handlers.Vehicle.Get)
	protected.Put("/vehicles/:uuid", r.handlers.Vehicle.Update)

	protected.Post("/job-cards", r.handlers.JobCard.Create)
	protected.Get("/job-cards", r.handlers.JobCard.List)
	protected.Get("/job-cards/:uuid", r.handlers.JobCard.Get)
	protected.Put("/job-cards/:uuid", r.handlers.JobCard.Update)
	protected.Post("/job-cards/:uuid/status", r.handlers.JobCard.ChangeStatus)
	protected.Post("/job-cards/:uuid/attachments", r.handlers.Attachment.Upload)
	protected.Get("/job-cards/:uuid/attachments", r.handlers.Attachment.List)

	protected.Get("/attachments/:uuid", r.handlers.Attachment.Download)
	protected.Get("/attachments/:uuid/preview", r.handlers.Attachment.Preview)

	protected.Post("/quotations", r.handlers.Quotation.Create)
	protected.Get("/quotations", r.handlers.Quotation.List)
	protected.Get("/quotations/:uuid", r.handlers.Quotation.Get)
	protected.Post("/quotations/:uuid/status", r.handlers.Quotation.ChangeStatus)
	protected.Post("/quotations/:uuid/convert", r.handlers.Quotation.Convert)

	protected.Post("/invoices", r.handlers.Invoice.Issue)
	protected.Post("/invoices/payable", r.handlers.Invoice.RecordPayable)
	protected.Get("/invoices", r.handlers.Invoice.List)
	protected.Get("/invoices/:uuid", r.handlers.Invoice.Get)
	protected.Post("/invoices/:uuid/void", r.handlers.Invoice.Void)
	protected.Get("/invoices/:uuid/receipts", r.handlers.Settlement.ListReceipts)
	protected.Get("/invoices/:uuid/payments", r.handlers.Settlement.ListPayments)

	protected.Post("/receipts", r.handlers.Settlement.RecordReceipt)
	protected.Post("/payments", r.handlers.Settlement.RecordPayment)

	protected.Post("/inventory/items", r.handlers.Inventory.CreateItem)
	protected.Get("/inventory/items", r.handlers.Inventory.ListItems)
	protected.Get("/inventory/items/:uuid", r.handlers.Inventory.GetItem)
	protected.Put("/inventory/items/:uuid", r.handlers.Inventory.UpdateItem)
	protected.Post("/inventory/receiving-notes", r.handlers.Inventory.CreateReceivingNote)
	protected.Post("/inventory/issue-notes", r.handlers.Inventory.CreateIssueNote)
	protected.Get("/inventory/stock-documents", r.handlers.Inventory.ListStockDocuments)

	protected.Post("/suppliers", r.handlers.Supplier.Create)
	protected.Get("/suppliers", r.handlers.Supplier.List)
	protected.Get("/suppliers/:uuid", r.handlers.Supplier.Get)
	protected.Put("/suppliers/:uuid", r.handlers.Supplier.Update)

	protected.Post("/currencies", r.handlers.Currency.Create)
	protected.Get("/currencies", r.handlers.Currency.List)
	protected.Put("/currencies/:code", r.handlers.Currency.Update)

	protected.Post("/employees", r.handlers.Employee.Create)
	protected.Get("/employees", r.handlers.Employee.List)
	protected.Get("/employees/:uuid", r.handlers.Employee.Get)
	protected.Put("/employees/:uuid", r.handlers.Employee.Update)

	protected.Get("/counters", r.handlers.Counter.List)
	protected.Put("/counters/:code", r.handlers.Counter.Update)
	protected.Post("/counters/allocate", r.handlers.Counter.Allocate)

	protected.Get("/reports/dashboard", r.handlers.Report.Dashboard)
	protected.Get("/reports/revenue", r.handlers.Report.Revenue)
	protected.Get("/reports/invoices/export", r.handlers.Report.ExportInvoices)

	protected.Get("/audit-logs", r.handlers.Audit.List)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000,
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; img-src 'self' data:; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://pitline.io",
			"https://api.pitline.io",
			"https://admin.pitline.io",
			"https://app.pitline.io",
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			contentType := c.Get("Content-Type")
			return contains(contentType, "image/") ||
				contains(contentType, "application/vnd.openxmlformats")
		},
	}))

	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	r.app.Use(middleware.Metrics())

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "pitline-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}
