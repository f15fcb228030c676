package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusvote/internal/adapters/http/middleware"
	"campusvote/internal/adapters/http/routes"
	"campusvote/internal/adapters/persistence/models"
	"campusvote/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"

	_ "campusvote/docs" // Swagger docs
)

// bodyLimit fits a 10 MiB image after base64 expansion
const bodyLimit = 16 << 20

// @title campusvote API
// @version 1.0
// @description Student election service: lifecycle, step-up verification and the vote ledger.

// @contact.name API Support
// @contact.email support@campusvote.local

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	flags := pflag.NewFlagSet("campusvote", pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	// Load configuration
	cfg, err := config.Load(flags)
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

	// Seed dev fixtures
	if cfg.IsDev() {
		if err := config.SeedDevData(db); err != nil {
			log.Printf("⚠️ Warning: Failed to seed dev data: %v", err)
		}
	}

	if cfg.MigrateOnly {
		log.Println("✅ Migrate-only run finished")
		return
	}

	// Wire services
	svc := routes.NewServices(db, cfg, routes.DefaultCollaborators(cfg))

	// Start scheduler (lifecycle sweep + cleanup)
	if err := svc.Scheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "campusvote API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    bodyLimit,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, svc, cfg)

	// Graceful shutdown
	go gracefulShutdown(app, svc)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, svc *routes.Services) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	svc.Scheduler.Stop(ctx)

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
