package models

// MatchStatus is the outcome of reconciling one catalog product
type MatchStatus string

const (
	MatchStatusInStock      MatchStatus = "IN_STOCK"
	MatchStatusOutOfStock   MatchStatus = "OUT_OF_STOCK"
	MatchStatusNewAvailable MatchStatus = "NEW_AVAILABLE"
)

// MatchResult is produced for every catalog product in a run.
type MatchResult struct {
	Product Product
	// Candidate is set only when Status is IN_STOCK and the candidate was consumed.
	Candidate      *Candidate
	CandidateIndex int
	// Closest is the best candidate seen for an OUT_OF_STOCK product, if any.
	Closest         *Candidate
	Score           float64
	Threshold       float64
	TextSimilarity  float64
	Status          MatchStatus
	PriceComparison *PriceComparison
}

// PriceComparison compares the catalog price with the wholesaler price in local currency
type PriceComparison struct {
	MyPrice         int64  `json:"my_price"`
	WholesalerPrice *int64 `json:"wholesaler_price"`
	Difference      *int64 `json:"difference"`
}

// NewAvailable is a wholesaler candidate that no catalog product consumed
type NewAvailable struct {
	Candidate
	EstimatedSellingPrice *int64      `json:"estimated_selling_price"`
	Status                MatchStatus `json:"status"`
	Category              string      `json:"category"`
	Subcategory           string      `json:"subcategory"`
}

// Reconciliation is the three-way partition produced by a run
type Reconciliation struct {
	Matched             []MatchResult
	UnmatchedInternal   []MatchResult
	UnmatchedCandidates []NewAvailable
}
