package models

import (
	"time"
)

// StockRun is the audit record of one reconciliation run
type StockRun struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	Subcategory   string    `json:"subcategory"`
	TotalProducts int       `json:"total_products"`
	InStock       int       `json:"in_stock"`
	OutOfStock    int       `json:"out_of_stock"`
	NewAvailable  int       `json:"new_available"`
	ArchiveKey    *string   `json:"archive_key,omitempty"`
	CreatedBy     *int      `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockRunListParams contains parameters for listing runs
type StockRunListParams struct {
	Limit  int
	Offset int
}
