package routes

import (
	"mealscan-api/internal/adapters/http/handlers"
	"mealscan-api/internal/adapters/http/middleware"
	"mealscan-api/internal/adapters/persistence/repositories"
	"mealscan-api/internal/config"
	"mealscan-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	employeeRepo := repositories.NewEmployeeRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	accountRepo := repositories.NewScannerAccountRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Initialize services
	qrService := services.NewQRCodeService(cfg.QR.SecretSalt)
	authService := services.NewAuthService(accountRepo, refreshTokenRepo, cfg)
	scanService := services.NewScanService(employeeRepo, attendanceRepo, qrService, cfg.Attendance.Location)
	employeeService := services.NewEmployeeService(employeeRepo, qrService)
	accountService := services.NewAccountService(accountRepo)
	reportService := services.NewReportService(attendanceRepo, employeeRepo, cfg.Attendance.Location)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	scanHandler := handlers.NewScanHandler(scanService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	accountHandler := handlers.NewAccountHandler(accountService)
	reportHandler := handlers.NewReportHandler(reportService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public + protected)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Scan routes (any authenticated scanner account)
	scanRoutes := apiV1.Group("/scans")
	scanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupScanRoutes(scanRoutes, scanHandler)

	// Employee management routes (Admin only)
	employeeRoutes := apiV1.Group("/admin/employees")
	employeeRoutes.Use(middleware.AuthMiddleware(cfg))
	employeeRoutes.Use(middleware.AdminOnly())
	setupEmployeeRoutes(employeeRoutes, employeeHandler)

	// Account management routes (Admin only)
	accountRoutes := apiV1.Group("/admin/accounts")
	accountRoutes.Use(middleware.AuthMiddleware(cfg))
	accountRoutes.Use(middleware.AdminOnly())
	setupAccountRoutes(accountRoutes, accountHandler)

	// Report routes (Admin only)
	reportRoutes := apiV1.Group("/admin/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	reportRoutes.Use(middleware.AdminOnly())
	setupReportRoutes(reportRoutes, reportHandler)

	// Dashboard (Admin only)
	apiV1.Get("/admin/dashboard",
		middleware.AuthMiddleware(cfg),
		middleware.AdminOnly(),
		reportHandler.Dashboard,
	)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (login is rate limited against brute force)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupScanRoutes configures scan routes
func setupScanRoutes(router fiber.Router, handler *handlers.ScanHandler) {
	router.Post("/", handler.RecordScan)
	router.Get("/today", handler.MyScansToday)
}

// setupEmployeeRoutes configures employee management routes (Admin only)
func setupEmployeeRoutes(router fiber.Router, handler *handlers.EmployeeHandler) {
	router.Get("/", handler.ListEmployees)
	router.Post("/", handler.CreateEmployee)

	// CSV import is rate limited: bulk writes, admin consoles only
	router.Post("/import", middleware.StrictRateLimiter(), handler.ImportCSV)

	router.Get("/:phone", handler.GetEmployee)
	router.Put("/:phone", handler.UpdateEmployee)
	router.Delete("/:phone", handler.DeactivateEmployee)
	router.Post("/:phone/activate", handler.ActivateEmployee)
	router.Post("/:phone/regenerate-qr", middleware.StrictRateLimiter(), handler.RegenerateQRCode)
	router.Get("/:phone/qrcode", handler.QRCodeImage)
}

// setupAccountRoutes configures scanner account management routes (Admin only)
func setupAccountRoutes(router fiber.Router, handler *handlers.AccountHandler) {
	router.Get("/", handler.ListAccounts)
	router.Post("/", handler.CreateAccount)
	router.Get("/:id", handler.GetAccount)
	router.Put("/:id", handler.UpdateAccount)
	router.Delete("/:id", handler.DeactivateAccount)
}

// setupReportRoutes configures report routes (Admin only)
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	router.Get("/daily", handler.DailyReport)
	router.Get("/range", handler.RangeReport)
	router.Get("/employees/:phone", handler.EmployeeHistory)
}
