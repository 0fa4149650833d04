package models

// Product is the catalog projection the reconciliation engine reads.
// The catalog itself is owned by the host system.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"product_name"`
	Brand        string `json:"brand_name"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	SellingPrice int64  `json:"selling_price"`
	Stock        *int   `json:"stock"` // nil means unknown, treated as available
}

// ProductScope narrows a reconciliation run to a category and/or subcategory.
// Empty fields match everything.
type ProductScope struct {
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

// CreateProductRequest is used by the seeder to load the catalog projection
type CreateProductRequest struct {
	Name         string
	Brand        string
	Category     string
	Subcategory  string
	SellingPrice int64
	Stock        *int
}
