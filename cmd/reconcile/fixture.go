package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/foxxcyber/stock-sync/internal/models"
)

var errReadOnlyCatalog = errors.New("catalog fixture is read-only")

// catalogFixture serves a catalog loaded from a JSON array of products.
// It only supports analysis; mutations are rejected.
type catalogFixture struct {
	products []models.Product
}

func loadCatalogFixture(path string) (*catalogFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseCatalogFixture(data)
}

func parseCatalogFixture(data []byte) (*catalogFixture, error) {
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	return &catalogFixture{products: products}, nil
}

func (f *catalogFixture) ListProductsInScope(ctx context.Context, scope models.ProductScope) ([]models.Product, error) {
	var products []models.Product
	for _, p := range f.products {
		if scope.Category != "" && !strings.EqualFold(p.Category, scope.Category) {
			continue
		}
		if scope.Subcategory != "" && !strings.EqualFold(p.Subcategory, scope.Subcategory) {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (f *catalogFixture) SetProductsStock(ctx context.Context, productIDs []string, stock int) (int64, int64, error) {
	return 0, 0, errReadOnlyCatalog
}

func (f *catalogFixture) ApplyPricingChanges(ctx context.Context, changes []models.PricingChange) ([]models.PriceUpdateResult, error) {
	return nil, errReadOnlyCatalog
}

func (f *catalogFixture) RecordStockRun(ctx context.Context, run *models.StockRun) error {
	log.Printf("Run %s not recorded (fixture catalog)", run.ID)
	return nil
}

func (f *catalogFixture) ListStockRuns(ctx context.Context, params *models.StockRunListParams) ([]*models.StockRun, int, error) {
	return []*models.StockRun{}, 0, nil
}
