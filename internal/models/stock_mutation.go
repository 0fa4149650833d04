package models

import (
	"github.com/shopspring/decimal"
)

// BulkStockAction is the stock flag operation to apply
type BulkStockAction string

const (
	ActionMarkOutOfStock BulkStockAction = "mark_out_of_stock"
	ActionMarkInStock    BulkStockAction = "mark_in_stock"
)

// BulkStockRequest is the request body for flagging products in or out of stock
type BulkStockRequest struct {
	Action     BulkStockAction `json:"action"`
	ProductIDs []string        `json:"product_ids"`
}

// BulkStockResult reports the outcome of a bulk stock flag update
type BulkStockResult struct {
	Action        BulkStockAction `json:"action"`
	Stock         int             `json:"stock"`
	MatchedCount  int64           `json:"matched_count"`
	ModifiedCount int64           `json:"modified_count"`
	Message       string          `json:"message"`
}

// PriceUpdate is one wholesaler price to apply to a catalog product.
// SuggestedMargin is a percentage.
type PriceUpdate struct {
	ProductID       string           `json:"product_id"`
	WholesalerPrice decimal.Decimal  `json:"wholesaler_price"`
	SuggestedMargin *decimal.Decimal `json:"suggested_margin,omitempty"`
}

// PriceUpdateRequest is the request body for updating prices from wholesaler data
type PriceUpdateRequest struct {
	PriceUpdates []PriceUpdate    `json:"price_updates"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
}

// PricingChange is the computed write for one product
type PricingChange struct {
	ProductID       string
	WholesalerPrice decimal.Decimal
	PurchasePrice   decimal.Decimal
	ExchangeRate    decimal.Decimal
	SellingPrice    int64
}

// PriceUpdateResult reports a single applied price change
type PriceUpdateResult struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	OldPrice        int64           `json:"old_price"`
	NewPrice        int64           `json:"new_price"`
	WholesalerPrice decimal.Decimal `json:"wholesaler_price"`
}

// PriceUpdateResponse reports the outcome of a price update batch
type PriceUpdateResponse struct {
	UpdatedCount int                 `json:"updated_count"`
	ExchangeRate decimal.Decimal     `json:"exchange_rate"`
	Results      []PriceUpdateResult `json:"results"`
	NotFound     []string            `json:"not_found,omitempty"`
	Message      string              `json:"message"`
}
