package services

import (
	"github.com/shopspring/decimal"

	"github.com/foxxcyber/stock-sync/internal/models"
)

// Tags for NewAvailable entries when the run has no scope
const (
	DefaultNewCategory    = "informatica"
	DefaultNewSubcategory = "notebooks"
)

// ReconcileOptions carries the per-run parameters of a reconciliation
type ReconcileOptions struct {
	// PriceMultiplier converts candidate prices to local currency for the price comparison
	PriceMultiplier decimal.Decimal
	// MarkupPercent is applied to unconsumed candidates to estimate a selling price
	MarkupPercent decimal.Decimal
	// Category and Subcategory tag NewAvailable entries
	Category    string
	Subcategory string
}

// Reconciler assigns wholesaler candidates to catalog products
type Reconciler struct {
	matcher *ProductMatcher
}

// NewReconciler creates a reconciler using the given matcher
func NewReconciler(matcher *ProductMatcher) *Reconciler {
	if matcher == nil {
		matcher = NewProductMatcher(DefaultMatchWeights)
	}
	return &Reconciler{matcher: matcher}
}

// Reconcile partitions the catalog into products the wholesaler carries and
// products it apparently does not, and lists the candidates nobody claimed.
//
// Assignment is greedy in catalog order: each product takes its best-scoring
// unused candidate if the score clears the pair's threshold. This is not an
// optimal assignment and callers may rely on its tie-breaking, so keep it.
func (r *Reconciler) Reconcile(products []models.Product, candidates []models.Candidate, opts ReconcileOptions) models.Reconciliation {
	result := models.Reconciliation{
		Matched:             []models.MatchResult{},
		UnmatchedInternal:   []models.MatchResult{},
		UnmatchedCandidates: []models.NewAvailable{},
	}
	used := make([]bool, len(candidates))

	for _, product := range products {
		match := r.matchProduct(newProductProfile(product), candidates, used, opts)
		if match.Status == models.MatchStatusInStock {
			used[match.CandidateIndex] = true
			result.Matched = append(result.Matched, match)
		} else {
			result.UnmatchedInternal = append(result.UnmatchedInternal, match)
		}
	}

	for i, candidate := range candidates {
		if used[i] {
			continue
		}
		result.UnmatchedCandidates = append(result.UnmatchedCandidates, newAvailable(candidate, opts))
	}

	return result
}

// matchProduct finds the best unused candidate for one product and decides
// whether it is accepted. It does not modify used.
func (r *Reconciler) matchProduct(profile productProfile, candidates []models.Candidate, used []bool, opts ReconcileOptions) models.MatchResult {
	bestIndex, bestScore := r.bestCandidate(profile, candidates, used)

	var best *models.Candidate
	if bestIndex >= 0 {
		c := candidates[bestIndex]
		best = &c
	}

	threshold := r.matcher.Threshold(profile.product, best)
	match := models.MatchResult{
		Product:        profile.product,
		CandidateIndex: -1,
		Score:          bestScore,
		Threshold:      threshold,
		Status:         models.MatchStatusOutOfStock,
	}

	if best == nil || bestScore < threshold {
		match.Closest = best
		return match
	}

	match.Status = models.MatchStatusInStock
	match.Candidate = best
	match.CandidateIndex = bestIndex
	match.TextSimilarity = TextSimilarity(profile.product.Name, best.Name)
	match.PriceComparison = comparePrices(profile.product.SellingPrice, best.Price, opts.PriceMultiplier)
	return match
}

// bestCandidate returns the index and score of the highest-scoring unused
// candidate. Ties keep the earliest candidate; a zero score never wins.
func (r *Reconciler) bestCandidate(profile productProfile, candidates []models.Candidate, used []bool) (int, float64) {
	bestIndex := -1
	bestScore := 0.0

	for i, candidate := range candidates {
		if used[i] {
			continue
		}
		if score := r.matcher.score(profile, candidate); score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	return bestIndex, bestScore
}

// comparePrices converts the candidate price to local currency and compares
// it with the catalog price
func comparePrices(myPrice int64, candidatePrice *int64, multiplier decimal.Decimal) *models.PriceComparison {
	comparison := &models.PriceComparison{MyPrice: myPrice}
	if candidatePrice == nil {
		return comparison
	}

	local := decimal.NewFromInt(*candidatePrice).Mul(multiplier)
	wholesalerPrice := local.Round(0).IntPart()
	difference := decimal.NewFromInt(myPrice).Sub(local).Round(0).IntPart()

	comparison.WholesalerPrice = &wholesalerPrice
	comparison.Difference = &difference
	return comparison
}

// newAvailable turns an unclaimed candidate into a listing suggestion
func newAvailable(c models.Candidate, opts ReconcileOptions) models.NewAvailable {
	entry := models.NewAvailable{
		Candidate:   c,
		Status:      models.MatchStatusNewAvailable,
		Category:    opts.Category,
		Subcategory: opts.Subcategory,
	}
	if entry.Category == "" {
		entry.Category = DefaultNewCategory
	}
	if entry.Subcategory == "" {
		entry.Subcategory = DefaultNewSubcategory
	}

	if c.Price != nil {
		estimated := EstimateSellingPrice(*c.Price, opts.MarkupPercent)
		entry.EstimatedSellingPrice = &estimated
	}

	return entry
}

// EstimateSellingPrice applies a percentage markup and rounds to a whole amount
func EstimateSellingPrice(price int64, markupPercent decimal.Decimal) int64 {
	factor := decimal.NewFromInt(1).Add(markupPercent.Div(decimal.NewFromInt(100)))
	return decimal.NewFromInt(price).Mul(factor).Round(0).IntPart()
}
