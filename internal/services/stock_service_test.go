package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/stock-sync/internal/models"
)

// --- Mocks ---

type mockStockStore struct {
	products []models.Product
	listErr  error

	matched, modified int64
	stockErr          error
	lastStockIDs      []string
	lastStock         int
	stockCalls        int

	priceResults []models.PriceUpdateResult
	priceErr     error
	lastChanges  []models.PricingChange

	recordedRuns []*models.StockRun
	recordErr    error
	lastScope    models.ProductScope
}

func (m *mockStockStore) ListProductsInScope(ctx context.Context, scope models.ProductScope) ([]models.Product, error) {
	m.lastScope = scope
	return m.products, m.listErr
}

func (m *mockStockStore) SetProductsStock(ctx context.Context, productIDs []string, stock int) (int64, int64, error) {
	m.stockCalls++
	m.lastStockIDs = productIDs
	m.lastStock = stock
	return m.matched, m.modified, m.stockErr
}

func (m *mockStockStore) ApplyPricingChanges(ctx context.Context, changes []models.PricingChange) ([]models.PriceUpdateResult, error) {
	m.lastChanges = changes
	return m.priceResults, m.priceErr
}

func (m *mockStockStore) RecordStockRun(ctx context.Context, run *models.StockRun) error {
	m.recordedRuns = append(m.recordedRuns, run)
	return m.recordErr
}

func (m *mockStockStore) ListStockRuns(ctx context.Context, params *models.StockRunListParams) ([]*models.StockRun, int, error) {
	return m.recordedRuns, len(m.recordedRuns), nil
}

type mockArchiver struct {
	err      error
	lastDump string
	calls    int
}

func (m *mockArchiver) ArchiveRun(ctx context.Context, runID string, analyzedAt time.Time, dump string, report *models.StockReport) (string, error) {
	m.calls++
	m.lastDump = dump
	if m.err != nil {
		return "", m.err
	}
	return RunArchivePrefix(runID, analyzedAt), nil
}

func testServiceConfig() StockServiceConfig {
	return StockServiceConfig{
		PriceMultiplier:    decimal.NewFromInt(7300),
		ExchangeRate:       decimal.NewFromInt(7300),
		DefaultMargin:      decimal.NewFromInt(30),
		MarkupPercent:      decimal.NewFromInt(30),
		DefaultCategory:    DefaultNewCategory,
		DefaultSubcategory: DefaultNewSubcategory,
	}
}

const (
	productA = "3f2b8c1e-7d4a-4e6b-9c0f-1a2b3c4d5e6f"
	productB = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

// --- Analyze ---

func TestStockService_Analyze(t *testing.T) {
	store := &mockStockStore{products: []models.Product{victusProduct}}
	archiver := &mockArchiver{}
	service := NewStockService(store, archiver, testServiceConfig())
	fixed := time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	dump := victusLine + "\nG$ 8.500.000\n"
	userID := 7

	report, err := service.Analyze(context.Background(), &models.StockAnalysisRequest{
		WholesalerData: dump,
		Category:       " informatica ",
	}, &userID)

	require.NoError(t, err)
	assert.Equal(t, "informatica", store.lastScope.Category)
	assert.Equal(t, 1, report.Summary.InStock)
	assert.Equal(t, 0, report.Summary.OutOfStock)
	assert.Equal(t, 0, report.Summary.NewAvailable)
	assert.Equal(t, fixed, report.Summary.AnalysisDate)

	assert.Equal(t, 1, archiver.calls)
	assert.Equal(t, dump, archiver.lastDump)

	require.Len(t, store.recordedRuns, 1)
	run := store.recordedRuns[0]
	assert.Equal(t, report.Summary.RunID, run.ID)
	assert.Equal(t, 1, run.InStock)
	require.NotNil(t, run.CreatedBy)
	assert.Equal(t, 7, *run.CreatedBy)
	require.NotNil(t, run.ArchiveKey)
	assert.Equal(t, "stock-runs/2026/05/"+run.ID, *run.ArchiveKey)
}

func TestStockService_AnalyzeRequiresData(t *testing.T) {
	store := &mockStockStore{}
	service := NewStockService(store, nil, testServiceConfig())

	for _, req := range []*models.StockAnalysisRequest{nil, {}, {WholesalerData: "  \n\t "}} {
		_, err := service.Analyze(context.Background(), req, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, store.recordedRuns)
}

func TestStockService_AnalyzeEmptyScope(t *testing.T) {
	store := &mockStockStore{products: []models.Product{}}
	service := NewStockService(store, nil, testServiceConfig())

	report, err := service.Analyze(context.Background(), &models.StockAnalysisRequest{
		WholesalerData: victusLine + "\nG$ 8.500.000\n",
		Subcategory:    "tablets",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "no products in tablets", report.Message)
	assert.Zero(t, report.Summary.TotalMyProducts)
	// No candidates are offered when there is nothing to reconcile against
	assert.Empty(t, report.NewProducts)
}

func TestStockService_AnalyzeCatalogError(t *testing.T) {
	store := &mockStockStore{listErr: errors.New("connection refused")}
	service := NewStockService(store, nil, testServiceConfig())

	_, err := service.Analyze(context.Background(), &models.StockAnalysisRequest{WholesalerData: "x"}, nil)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.recordedRuns)
}

func TestStockService_AnalyzeSideEffectFailuresAreNotFatal(t *testing.T) {
	store := &mockStockStore{
		products:  []models.Product{victusProduct},
		recordErr: errors.New("table missing"),
	}
	archiver := &mockArchiver{err: errors.New("bucket unreachable")}
	service := NewStockService(store, archiver, testServiceConfig())

	report, err := service.Analyze(context.Background(), &models.StockAnalysisRequest{
		WholesalerData: victusLine + "\nG$ 8.500.000\n",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.InStock)
	require.Len(t, store.recordedRuns, 1)
	assert.Nil(t, store.recordedRuns[0].ArchiveKey)
}

func TestStockService_AnalyzeDoesNotMutateCatalog(t *testing.T) {
	store := &mockStockStore{products: []models.Product{victusProduct}}
	service := NewStockService(store, nil, testServiceConfig())

	_, err := service.Analyze(context.Background(), &models.StockAnalysisRequest{
		WholesalerData: victusLine + "\nG$ 8.500.000\n",
	}, nil)

	require.NoError(t, err)
	assert.Zero(t, store.stockCalls)
	assert.Nil(t, store.lastChanges)
}

// --- UpdateBulkStock ---

func TestStockService_UpdateBulkStock(t *testing.T) {
	tests := []struct {
		name          string
		action        models.BulkStockAction
		expectedStock int
		message       string
	}{
		{"mark out of stock", models.ActionMarkOutOfStock, 0, "2 products marked out of stock"},
		{"mark in stock", models.ActionMarkInStock, 1, "2 products marked in stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStockStore{matched: 2, modified: 1}
			service := NewStockService(store, nil, testServiceConfig())

			result, err := service.UpdateBulkStock(context.Background(), &models.BulkStockRequest{
				Action:     tt.action,
				ProductIDs: []string{productA, productB},
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStock, store.lastStock)
			assert.Equal(t, []string{productA, productB}, store.lastStockIDs)
			assert.Equal(t, tt.expectedStock, result.Stock)
			assert.Equal(t, int64(2), result.MatchedCount)
			assert.Equal(t, int64(1), result.ModifiedCount)
			assert.Equal(t, tt.message, result.Message)
		})
	}
}

func TestStockService_UpdateBulkStockValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.BulkStockRequest
	}{
		{"nil request", nil},
		{"missing action", &models.BulkStockRequest{ProductIDs: []string{productA}}},
		{"empty ids", &models.BulkStockRequest{Action: models.ActionMarkInStock, ProductIDs: []string{}}},
		{"unknown action", &models.BulkStockRequest{Action: "delete_all", ProductIDs: []string{productA}}},
		{"malformed id", &models.BulkStockRequest{Action: models.ActionMarkInStock, ProductIDs: []string{productA, "42"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStockStore{}
			service := NewStockService(store, nil, testServiceConfig())

			_, err := service.UpdateBulkStock(context.Background(), tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, store.stockCalls)
		})
	}
}

func TestStockService_UpdateBulkStockPersistenceError(t *testing.T) {
	store := &mockStockStore{stockErr: errors.New("deadlock detected")}
	service := NewStockService(store, nil, testServiceConfig())

	_, err := service.UpdateBulkStock(context.Background(), &models.BulkStockRequest{
		Action:     models.ActionMarkOutOfStock,
		ProductIDs: []string{productA},
	})

	assert.ErrorIs(t, err, ErrPersistence)
}

// --- UpdatePrices ---

func TestStockService_UpdatePrices(t *testing.T) {
	store := &mockStockStore{
		priceResults: []models.PriceUpdateResult{
			{ProductID: productA, ProductName: "HP Victus", OldPrice: 9000000, NewPrice: 9490000},
		},
	}
	service := NewStockService(store, nil, testServiceConfig())
	margin := decimal.NewFromInt(20)

	resp, err := service.UpdatePrices(context.Background(), &models.PriceUpdateRequest{
		PriceUpdates: []models.PriceUpdate{
			{ProductID: productA, WholesalerPrice: decimal.NewFromInt(1000)},
			{ProductID: productB, WholesalerPrice: decimal.RequireFromString("899.99"), SuggestedMargin: &margin},
		},
	})

	require.NoError(t, err)
	require.Len(t, store.lastChanges, 2)

	first := store.lastChanges[0]
	assert.True(t, decimal.NewFromInt(7300000).Equal(first.PurchasePrice))
	assert.True(t, decimal.NewFromInt(7300).Equal(first.ExchangeRate))
	assert.Equal(t, int64(9490000), first.SellingPrice)

	second := store.lastChanges[1]
	// 899.99 * 7300 = 6569927, * 1.2 = 7883912.4
	assert.True(t, decimal.RequireFromString("6569927").Equal(second.PurchasePrice))
	assert.Equal(t, int64(7883912), second.SellingPrice)

	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, []string{productB}, resp.NotFound)
	assert.Equal(t, "1 products updated with new prices", resp.Message)
	assert.True(t, decimal.NewFromInt(7300).Equal(resp.ExchangeRate))
}

func TestStockService_UpdatePricesExchangeRateOverride(t *testing.T) {
	store := &mockStockStore{}
	service := NewStockService(store, nil, testServiceConfig())
	rate := decimal.NewFromInt(7500)

	resp, err := service.UpdatePrices(context.Background(), &models.PriceUpdateRequest{
		PriceUpdates: []models.PriceUpdate{{ProductID: productA, WholesalerPrice: decimal.NewFromInt(100)}},
		ExchangeRate: &rate,
	})

	require.NoError(t, err)
	assert.True(t, rate.Equal(store.lastChanges[0].ExchangeRate))
	assert.Equal(t, int64(975000), store.lastChanges[0].SellingPrice)
	assert.Equal(t, 0, resp.UpdatedCount)
	assert.NotNil(t, resp.Results)
}

func TestStockService_UpdatePricesValidation(t *testing.T) {
	zero := decimal.Zero
	tests := []struct {
		name string
		req  *models.PriceUpdateRequest
	}{
		{"nil request", nil},
		{"no updates", &models.PriceUpdateRequest{}},
		{"zero exchange rate", &models.PriceUpdateRequest{
			PriceUpdates: []models.PriceUpdate{{ProductID: productA, WholesalerPrice: decimal.NewFromInt(1)}},
			ExchangeRate: &zero,
		}},
		{"negative price", &models.PriceUpdateRequest{
			PriceUpdates: []models.PriceUpdate{{ProductID: productA, WholesalerPrice: decimal.NewFromInt(-5)}},
		}},
		{"malformed id in batch", &models.PriceUpdateRequest{
			PriceUpdates: []models.PriceUpdate{
				{ProductID: productA, WholesalerPrice: decimal.NewFromInt(10)},
				{ProductID: "not-a-uuid", WholesalerPrice: decimal.NewFromInt(10)},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStockStore{}
			service := NewStockService(store, nil, testServiceConfig())

			_, err := service.UpdatePrices(context.Background(), tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			// Nothing reaches the store when any entry is invalid
			assert.Nil(t, store.lastChanges)
		})
	}
}

func TestStockService_UpdatePricesPersistenceError(t *testing.T) {
	store := &mockStockStore{priceErr: errors.New("serialization failure")}
	service := NewStockService(store, nil, testServiceConfig())

	_, err := service.UpdatePrices(context.Background(), &models.PriceUpdateRequest{
		PriceUpdates: []models.PriceUpdate{{ProductID: productA, WholesalerPrice: decimal.NewFromInt(10)}},
	})

	assert.ErrorIs(t, err, ErrPersistence)
}

func TestComputePricingChange(t *testing.T) {
	change := ComputePricingChange(productA, decimal.NewFromInt(500), decimal.NewFromInt(30), decimal.NewFromInt(1))

	assert.Equal(t, productA, change.ProductID)
	assert.True(t, decimal.NewFromInt(500).Equal(change.PurchasePrice))
	assert.Equal(t, int64(650), change.SellingPrice)
}

func TestStockService_ListRuns(t *testing.T) {
	store := &mockStockStore{recordedRuns: []*models.StockRun{{ID: "r1"}, {ID: "r2"}}}
	service := NewStockService(store, nil, testServiceConfig())

	runs, total, err := service.ListRuns(context.Background(), &models.StockRunListParams{Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, runs, 2)
}
