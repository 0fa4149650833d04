package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foxxcyber/stock-sync/internal/models"
)

var (
	// ErrInvalidInput is wrapped by every request validation failure
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistence is wrapped when the catalog store rejects a mutation
	ErrPersistence = errors.New("failed to persist catalog changes")
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// StockStore is the catalog persistence the stock service reads and mutates
type StockStore interface {
	ListProductsInScope(ctx context.Context, scope models.ProductScope) ([]models.Product, error)
	SetProductsStock(ctx context.Context, productIDs []string, stock int) (matched, modified int64, err error)
	ApplyPricingChanges(ctx context.Context, changes []models.PricingChange) ([]models.PriceUpdateResult, error)
	RecordStockRun(ctx context.Context, run *models.StockRun) error
	ListStockRuns(ctx context.Context, params *models.StockRunListParams) ([]*models.StockRun, int, error)
}

// RunArchiver keeps a copy of the raw dump and the report of each run
type RunArchiver interface {
	ArchiveRun(ctx context.Context, runID string, analyzedAt time.Time, dump string, report *models.StockReport) (string, error)
}

// StockServiceConfig holds the monetary defaults of the stock service
type StockServiceConfig struct {
	PriceMultiplier    decimal.Decimal
	ExchangeRate       decimal.Decimal
	DefaultMargin      decimal.Decimal
	MarkupPercent      decimal.Decimal
	DefaultCategory    string
	DefaultSubcategory string
}

// StockService runs reconciliations and applies their outcome to the catalog
type StockService struct {
	store      StockStore
	archiver   RunArchiver
	parser     *WholesaleParser
	reconciler *Reconciler
	cfg        StockServiceConfig
	now        func() time.Time
}

// NewStockService creates a stock service. archiver may be nil.
func NewStockService(store StockStore, archiver RunArchiver, cfg StockServiceConfig) *StockService {
	return &StockService{
		store:      store,
		archiver:   archiver,
		parser:     NewWholesaleParser(),
		reconciler: NewReconciler(NewProductMatcher(DefaultMatchWeights)),
		cfg:        cfg,
		now:        time.Now,
	}
}

// Analyze reconciles a wholesaler dump against the catalog products in scope.
// The catalog is only read; nothing is mutated.
func (s *StockService) Analyze(ctx context.Context, req *models.StockAnalysisRequest, userID *int) (*models.StockReport, error) {
	if req == nil || strings.TrimSpace(req.WholesalerData) == "" {
		return nil, invalidInput("wholesaler data is required")
	}

	scope := models.ProductScope{
		Category:    strings.TrimSpace(req.Category),
		Subcategory: strings.TrimSpace(req.Subcategory),
	}

	products, err := s.store.ListProductsInScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	runID := uuid.NewString()
	analyzedAt := s.now()

	var report *models.StockReport
	if len(products) == 0 {
		report = EmptyStockReport(runID, scope, analyzedAt)
		report.Message = fmt.Sprintf("no products in %s", scopeLabel(scope.Subcategory))
	} else {
		candidates := DedupeCandidates(s.parser.Parse(req.WholesalerData))
		rec := s.reconciler.Reconcile(products, candidates, s.reconcileOptions(scope))
		report = BuildStockReport(runID, scope, len(products), rec, analyzedAt)
		report.Message = "stock analysis completed"
	}

	log.Printf("Stock run %s (%s/%s): %d products, %d in stock, %d out of stock, %d new",
		runID, report.Summary.Category, report.Summary.Subcategory,
		report.Summary.TotalMyProducts, report.Summary.InStock,
		report.Summary.OutOfStock, report.Summary.NewAvailable)

	run := &models.StockRun{
		ID:            runID,
		Category:      report.Summary.Category,
		Subcategory:   report.Summary.Subcategory,
		TotalProducts: report.Summary.TotalMyProducts,
		InStock:       report.Summary.InStock,
		OutOfStock:    report.Summary.OutOfStock,
		NewAvailable:  report.Summary.NewAvailable,
		CreatedBy:     userID,
		CreatedAt:     analyzedAt,
	}

	if s.archiver != nil {
		key, err := s.archiver.ArchiveRun(ctx, runID, analyzedAt, req.WholesalerData, report)
		if err != nil {
			log.Printf("Warning: failed to archive stock run %s: %v", runID, err)
		} else {
			run.ArchiveKey = &key
		}
	}

	if err := s.store.RecordStockRun(ctx, run); err != nil {
		log.Printf("Warning: failed to record stock run %s: %v", runID, err)
	}

	return report, nil
}

// reconcileOptions resolves the run parameters for a scope
func (s *StockService) reconcileOptions(scope models.ProductScope) ReconcileOptions {
	opts := ReconcileOptions{
		PriceMultiplier: s.cfg.PriceMultiplier,
		MarkupPercent:   s.cfg.MarkupPercent,
		Category:        scope.Category,
		Subcategory:     scope.Subcategory,
	}
	if opts.Category == "" {
		opts.Category = s.cfg.DefaultCategory
	}
	if opts.Subcategory == "" {
		opts.Subcategory = s.cfg.DefaultSubcategory
	}
	return opts
}

// stockForAction returns the stock value an action writes.
// mark_in_stock writes a flag value of 1, not a restocked quantity.
func stockForAction(action models.BulkStockAction) (int, string, bool) {
	switch action {
	case models.ActionMarkOutOfStock:
		return 0, "out of stock", true
	case models.ActionMarkInStock:
		return 1, "in stock", true
	default:
		return 0, "", false
	}
}

// UpdateBulkStock flags the given products in or out of stock
func (s *StockService) UpdateBulkStock(ctx context.Context, req *models.BulkStockRequest) (*models.BulkStockResult, error) {
	if req == nil || req.Action == "" || len(req.ProductIDs) == 0 {
		return nil, invalidInput("action and product ids are required")
	}

	stock, label, ok := stockForAction(req.Action)
	if !ok {
		return nil, invalidInput("invalid action %q", req.Action)
	}

	if err := validateProductIDs(req.ProductIDs); err != nil {
		return nil, err
	}

	matched, modified, err := s.store.SetProductsStock(ctx, req.ProductIDs, stock)
	if err != nil {
		log.Printf("Bulk stock update failed (action=%s stock=%d products=%s): %v",
			req.Action, stock, strings.Join(req.ProductIDs, ","), err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &models.BulkStockResult{
		Action:        req.Action,
		Stock:         stock,
		MatchedCount:  matched,
		ModifiedCount: modified,
		Message:       fmt.Sprintf("%d products marked %s", len(req.ProductIDs), label),
	}, nil
}

// UpdatePrices recomputes purchase and selling prices from wholesaler prices.
// The whole batch is validated before anything is written.
func (s *StockService) UpdatePrices(ctx context.Context, req *models.PriceUpdateRequest) (*models.PriceUpdateResponse, error) {
	if req == nil || len(req.PriceUpdates) == 0 {
		return nil, invalidInput("price updates are required")
	}

	rate := s.cfg.ExchangeRate
	if req.ExchangeRate != nil {
		rate = *req.ExchangeRate
	}
	if !rate.IsPositive() {
		return nil, invalidInput("exchange rate must be positive")
	}

	changes := make([]models.PricingChange, 0, len(req.PriceUpdates))
	for i, update := range req.PriceUpdates {
		if _, err := uuid.Parse(update.ProductID); err != nil {
			return nil, invalidInput("price update %d: invalid product id %q", i+1, update.ProductID)
		}
		if !update.WholesalerPrice.IsPositive() {
			return nil, invalidInput("price update %d: wholesaler price must be positive", i+1)
		}

		margin := s.cfg.DefaultMargin
		if update.SuggestedMargin != nil {
			margin = *update.SuggestedMargin
		}

		changes = append(changes, ComputePricingChange(update.ProductID, update.WholesalerPrice, margin, rate))
	}

	results, err := s.store.ApplyPricingChanges(ctx, changes)
	if err != nil {
		for _, c := range changes {
			log.Printf("Price update failed (product=%s wholesaler_price=%s exchange_rate=%s selling_price=%d)",
				c.ProductID, c.WholesalerPrice, c.ExchangeRate, c.SellingPrice)
		}
		log.Printf("Price update batch failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	updated := make(map[string]bool, len(results))
	for _, r := range results {
		updated[r.ProductID] = true
	}
	var notFound []string
	for _, c := range changes {
		if !updated[c.ProductID] {
			notFound = append(notFound, c.ProductID)
		}
	}

	if results == nil {
		results = []models.PriceUpdateResult{}
	}

	return &models.PriceUpdateResponse{
		UpdatedCount: len(results),
		ExchangeRate: rate,
		Results:      results,
		NotFound:     notFound,
		Message:      fmt.Sprintf("%d products updated with new prices", len(results)),
	}, nil
}

// ComputePricingChange converts a wholesaler price to local currency and
// applies the margin percentage to get the selling price
func ComputePricingChange(productID string, wholesalerPrice, marginPercent, exchangeRate decimal.Decimal) models.PricingChange {
	purchase := wholesalerPrice.Mul(exchangeRate)
	factor := decimal.NewFromInt(1).Add(marginPercent.Div(decimal.NewFromInt(100)))

	return models.PricingChange{
		ProductID:       productID,
		WholesalerPrice: wholesalerPrice,
		PurchasePrice:   purchase,
		ExchangeRate:    exchangeRate,
		SellingPrice:    purchase.Mul(factor).Round(0).IntPart(),
	}
}

// ListRuns returns recent reconciliation runs, newest first
func (s *StockService) ListRuns(ctx context.Context, params *models.StockRunListParams) ([]*models.StockRun, int, error) {
	return s.store.ListStockRuns(ctx, params)
}

func validateProductIDs(ids []string) error {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return invalidInput("invalid product id %q", id)
		}
	}
	return nil
}
