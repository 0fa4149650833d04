package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/foxxcyber/stock-sync/internal/config"
	"github.com/foxxcyber/stock-sync/internal/database"
	"github.com/foxxcyber/stock-sync/internal/models"
)

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	localFile := flag.String("file", "", "Catalog CSV file (reads stdin when empty)")
	category := flag.String("category", "", "Category for rows that don't set one")
	subcategory := flag.String("subcategory", "", "Subcategory for rows that don't set one")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Get CSV data
	var reader io.Reader = os.Stdin
	if *localFile != "" {
		file, err := os.Open(*localFile)
		if err != nil {
			log.Fatalf("Failed to open catalog file: %v", err)
		}
		defer file.Close()
		reader = file
		log.Printf("Reading from local file: %s", *localFile)
	}

	products, skipped, err := parseCatalogCSV(reader, *category, *subcategory)
	if err != nil {
		log.Fatalf("Failed to parse catalog: %v", err)
	}

	for _, s := range skipped {
		log.Printf("Skipped %s", s)
	}
	log.Printf("Found %d products to import", len(products))

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(products, 20)
		return
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	imported, err := importProducts(db, products)
	if err != nil {
		log.Fatalf("Failed to import products: %v", err)
	}

	log.Printf("Import complete: %d products", imported)
}

// parseCatalogCSV reads catalog rows. Expected columns:
// product_name,brand_name,category,subcategory,selling_price,stock
// Only product_name is required. Rows that can't be used are reported in skipped.
func parseCatalogCSV(reader io.Reader, defaultCategory, defaultSubcategory string) ([]models.CreateProductRequest, []string, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))
	csvReader.FieldsPerRecord = -1

	// Read header
	header, err := csvReader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	nameCol, ok := colMap["product_name"]
	if !ok {
		return nil, nil, fmt.Errorf("CSV header has no product_name column")
	}

	field := func(record []string, name string) string {
		idx, ok := colMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var products []models.CreateProductRequest
	var skipped []string
	line := 1

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		if nameCol >= len(record) || strings.TrimSpace(record[nameCol]) == "" {
			skipped = append(skipped, fmt.Sprintf("line %d: missing product_name", line))
			continue
		}

		req := models.CreateProductRequest{
			Name:        strings.TrimSpace(record[nameCol]),
			Brand:       field(record, "brand_name"),
			Category:    field(record, "category"),
			Subcategory: field(record, "subcategory"),
		}
		if req.Category == "" {
			req.Category = defaultCategory
		}
		if req.Subcategory == "" {
			req.Subcategory = defaultSubcategory
		}

		if raw := field(record, "selling_price"); raw != "" {
			price, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || price < 0 {
				skipped = append(skipped, fmt.Sprintf("line %d: invalid selling_price %q", line, raw))
				continue
			}
			req.SellingPrice = price
		}

		if raw := field(record, "stock"); raw != "" {
			stock, err := strconv.Atoi(raw)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("line %d: invalid stock %q", line, raw))
				continue
			}
			req.Stock = &stock
		}

		products = append(products, req)
	}

	return products, skipped, nil
}

// importProducts inserts the parsed rows
func importProducts(db *database.DB, products []models.CreateProductRequest) (int, error) {
	ctx := context.Background()
	imported := 0

	for i := range products {
		if _, err := db.CreateProduct(ctx, &products[i]); err != nil {
			return imported, fmt.Errorf("failed to import %q: %w", products[i].Name, err)
		}
		imported++

		if imported%100 == 0 {
			log.Printf("Progress: %d/%d products", imported, len(products))
		}
	}

	return imported, nil
}

// printPreview shows what would be imported
func printPreview(products []models.CreateProductRequest, limit int) {
	scopeCount := make(map[string]int)
	for _, p := range products {
		scopeCount[p.Category+"/"+p.Subcategory]++
	}

	var scopes []string
	for s := range scopeCount {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)

	fmt.Println("\nProducts by category:")
	for _, s := range scopes {
		fmt.Printf("  %s: %d products\n", s, scopeCount[s])
	}

	fmt.Printf("\nSample products (first %d):\n", limit)
	for i, p := range products {
		if i >= limit {
			break
		}
		fmt.Printf("  %s (%s) - %d\n", p.Name, p.Brand, p.SellingPrice)
	}
}
