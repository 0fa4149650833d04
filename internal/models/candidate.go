package models

// Specs is the technical specification bundle extracted from a product name.
// Empty strings mean the attribute was not found.
type Specs struct {
	Brand      string `json:"brand,omitempty"`
	Processor  string `json:"processor,omitempty"`
	RAM        string `json:"ram,omitempty"`
	Storage    string `json:"storage,omitempty"`
	ScreenSize string `json:"screen_size,omitempty"`
	GPU        string `json:"gpu,omitempty"`
	IsGaming   bool   `json:"is_gaming"`
}

// Candidate is a product record extracted from a wholesaler dump.
// Candidates live only for the duration of a reconciliation run.
type Candidate struct {
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
	Price          *int64 `json:"price"`
	PriceFormatted string `json:"price_formatted,omitempty"`
	Currency       string `json:"currency"`
	Original       string `json:"original"`
	Specs
}
