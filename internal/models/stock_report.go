package models

import (
	"time"
)

// StockAnalysisRequest is the request body for a reconciliation run
type StockAnalysisRequest struct {
	WholesalerData string `json:"wholesaler_data"`
	Category       string `json:"category,omitempty"`
	Subcategory    string `json:"subcategory,omitempty"`
}

// StockReport is the reconciliation report returned to the admin UI
type StockReport struct {
	Summary     StockSummary      `json:"summary"`
	InStock     []InStockEntry    `json:"in_stock"`
	OutOfStock  []OutOfStockEntry `json:"out_of_stock"`
	NewProducts []NewAvailable    `json:"new_products"`
	Message     string            `json:"message,omitempty"`
}

// StockSummary holds the headline counts of a run
type StockSummary struct {
	RunID            string    `json:"run_id"`
	TotalMyProducts  int       `json:"total_my_products"`
	InStock          int       `json:"in_stock"`
	OutOfStock       int       `json:"out_of_stock"`
	NewAvailable     int       `json:"new_available"`
	Category         string    `json:"category"`
	Subcategory      string    `json:"subcategory"`
	AnalysisDate     time.Time `json:"analysis_date"`
	AlgorithmVersion string    `json:"algorithm_version"`
}

// InStockEntry is a catalog product confirmed available from the wholesaler.
// Similarity and Threshold are percentages.
type InStockEntry struct {
	MyProduct         Product         `json:"my_product"`
	WholesalerProduct Candidate       `json:"wholesaler_product"`
	Similarity        int             `json:"similarity"`
	Threshold         int             `json:"threshold"`
	Status            MatchStatus     `json:"status"`
	MatchDetails      MatchDetails    `json:"match_details"`
	PriceComparison   PriceComparison `json:"price_comparison"`
}

// MatchDetails explains an accepted match
type MatchDetails struct {
	BrandMatch     bool `json:"brand_match"`
	ProcessorMatch bool `json:"processor_match"`
	TextSimilarity int  `json:"text_similarity"`
}

// OutOfStockEntry is a catalog product the wholesaler apparently does not carry
type OutOfStockEntry struct {
	Product
	Status         MatchStatus   `json:"status"`
	BestSimilarity int           `json:"best_similarity"`
	Threshold      int           `json:"threshold"`
	ClosestMatch   *ClosestMatch `json:"closest_match"`
}

// ClosestMatch previews the best candidate that fell below the threshold
type ClosestMatch struct {
	Name       string `json:"name"`
	Similarity int    `json:"similarity"`
}
