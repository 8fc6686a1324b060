package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"mealscan-api/internal/adapters/http/middleware"
	"mealscan-api/internal/adapters/http/routes"
	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/adapters/persistence/repositories"
	"mealscan-api/internal/config"
	"mealscan-api/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "mealscan-api/docs" // Swagger docs
)

// @title MealScan API
// @version 1.0
// @description Breakfast attendance backend: QR code derivation, scan recording, and reporting
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@mealscan.internal

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host mealscan.internal
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the default admin account on first boot
	if err := config.SeedDefaultAdmin(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed admin account: %v", err)
	}

	// Start Cron Service for the daily attendance summary
	reportService := services.NewReportService(
		repositories.NewAttendanceRepository(db),
		repositories.NewEmployeeRepository(db),
		cfg.Attendance.Location,
	)
	cronService := services.NewCronService(reportService, cfg.Attendance.Location, cfg.Attendance.SummaryCron)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MealScan API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
