package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/foxxcyber/stock-sync/internal/config"
	"github.com/foxxcyber/stock-sync/internal/database"
	"github.com/foxxcyber/stock-sync/internal/models"
	"github.com/foxxcyber/stock-sync/internal/services"
)

func main() {
	textFile := flag.String("file", "", "Wholesaler price list as text (reads stdin when empty and no -image)")
	imageFile := flag.String("image", "", "Wholesaler price list screenshot or scan, read with OCR")
	catalogFile := flag.String("catalog", "", "JSON catalog fixture; uses DATABASE_URL when empty")
	category := flag.String("category", "", "Only reconcile products of this category")
	subcategory := flag.String("subcategory", "", "Only reconcile products of this subcategory")
	archive := flag.Bool("archive", false, "Archive the run to S3 storage")
	flag.Parse()

	// Load .env
	godotenv.Load()
	cfg := config.Load()

	dump, err := readDump(*textFile, *imageFile, cfg.OCRLanguage)
	if err != nil {
		log.Fatalf("Failed to read price list: %v", err)
	}

	var store services.StockStore
	if *catalogFile != "" {
		fixture, err := loadCatalogFixture(*catalogFile)
		if err != nil {
			log.Fatalf("Failed to load catalog fixture: %v", err)
		}
		store = fixture
	} else {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		store = db
	}

	var archiver services.RunArchiver
	var storageService *services.StorageService
	if *archive {
		storageService, err = services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
		if err != nil {
			log.Fatalf("Failed to initialize storage service: %v", err)
		}
		archiver = storageService
	}

	stockService := services.NewStockService(store, archiver, services.StockServiceConfig{
		PriceMultiplier:    cfg.PriceMultiplier,
		ExchangeRate:       cfg.ExchangeRate,
		DefaultMargin:      cfg.DefaultMargin,
		MarkupPercent:      cfg.MarkupPercent,
		DefaultCategory:    cfg.DefaultCategory,
		DefaultSubcategory: cfg.DefaultSubcategory,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := stockService.Analyze(ctx, &models.StockAnalysisRequest{
		WholesalerData: dump,
		Category:       *category,
		Subcategory:    *subcategory,
	}, nil)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if storageService != nil {
		prefix := services.RunArchivePrefix(report.Summary.RunID, report.Summary.AnalysisDate)
		url, err := storageService.ReportURL(ctx, prefix, 24*time.Hour)
		if err != nil {
			log.Printf("Warning: no report link for run %s: %v", report.Summary.RunID, err)
		} else {
			log.Printf("Archived report: %s", url)
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
}

// readDump loads the price list from an image, a text file or stdin
func readDump(textFile, imageFile, ocrLanguage string) (string, error) {
	if imageFile != "" {
		ocr, err := services.NewOCRService(ocrLanguage)
		if err != nil {
			return "", err
		}
		defer ocr.Close()

		result, err := ocr.ProcessImageFromPath(imageFile)
		if err != nil {
			return "", err
		}
		return result.Text, nil
	}

	var reader io.Reader = os.Stdin
	if textFile != "" {
		file, err := os.Open(textFile)
		if err != nil {
			return "", err
		}
		defer file.Close()
		reader = file
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
