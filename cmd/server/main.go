package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/stock-sync/internal/config"
	"github.com/foxxcyber/stock-sync/internal/database"
	"github.com/foxxcyber/stock-sync/internal/handlers"
	"github.com/foxxcyber/stock-sync/internal/middleware"
	"github.com/foxxcyber/stock-sync/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    16 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Run archive storage is optional
	var archiver services.RunArchiver
	if storageService := initStorage(cfg); storageService != nil {
		archiver = storageService
	}

	// OCR is optional too; image analysis answers 503 without it
	ocrService, err := services.NewOCRService(cfg.OCRLanguage)
	if err != nil {
		log.Printf("Warning: Failed to initialize OCR service: %v", err)
	} else {
		defer ocrService.Close()
	}

	stockService := services.NewStockService(db, archiver, services.StockServiceConfig{
		PriceMultiplier:    cfg.PriceMultiplier,
		ExchangeRate:       cfg.ExchangeRate,
		DefaultMargin:      cfg.DefaultMargin,
		MarkupPercent:      cfg.MarkupPercent,
		DefaultCategory:    cfg.DefaultCategory,
		DefaultSubcategory: cfg.DefaultSubcategory,
	})

	h := handlers.New(cfg, stockService, ocrService)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Admin routes (admin only)
	api := app.Group("/api")
	admin := api.Group("/admin", middleware.AuthRequired(cfg), middleware.AdminRequired())

	stock := admin.Group("/stock")
	stock.Post("/analyze", h.AnalyzeStock)
	stock.Post("/analyze-image", h.AnalyzeStockImage)
	stock.Post("/bulk", h.UpdateBulkStock)
	stock.Post("/prices", h.UpdatePrices)
	stock.Get("/runs", h.ListStockRuns)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// initStorage connects to the run archive bucket. Returns nil when archiving
// is disabled or misconfigured.
func initStorage(cfg *config.Config) *services.StorageService {
	if !cfg.S3Enabled {
		log.Println("Run archiving is disabled")
		return nil
	}

	if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		log.Println("S3 credentials not configured, run archiving disabled")
		return nil
	}

	storageService, err := services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
	if err != nil {
		log.Printf("Warning: Failed to initialize storage service: %v", err)
		return nil
	}

	// Ensure bucket exists
	if err := storageService.EnsureBucket(context.Background()); err != nil {
		log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
	}

	log.Println("Run archiving initialized")
	return storageService
}
