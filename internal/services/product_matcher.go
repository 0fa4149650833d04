package services

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/foxxcyber/stock-sync/internal/models"
)

// MatchWeights are the attribute weights of the similarity score
type MatchWeights struct {
	Brand     float64
	Processor float64
	RAM       float64
	Storage   float64
	Text      float64
}

// DefaultMatchWeights favours brand and processor over free text
var DefaultMatchWeights = MatchWeights{
	Brand:     0.30,
	Processor: 0.25,
	RAM:       0.15,
	Storage:   0.10,
	Text:      0.20,
}

// Acceptance threshold bounds
const (
	baseThreshold       = 0.50
	brandMatchThreshold = 0.35
	gamingAdjustment    = 0.05
	budgetAdjustment    = 0.05
	minThreshold        = 0.30
	maxThreshold        = 0.70

	minTokenLength     = 3
	partialMatchCredit = 0.5
	partialMatchWeight = 0.3
)

var (
	thresholdGamingRegex = regexp.MustCompile(`(?i)gaming|gamer|rog|tuf|nitro|victus|omen|alienware`)
	thresholdBudgetRegex = regexp.MustCompile(`(?i)celeron|pentium|atom`)
)

// ProductMatcher scores catalog products against wholesaler candidates
type ProductMatcher struct {
	weights MatchWeights
}

// NewProductMatcher creates a matcher with the given weights.
// A zero value falls back to DefaultMatchWeights.
func NewProductMatcher(weights MatchWeights) *ProductMatcher {
	if weights == (MatchWeights{}) {
		weights = DefaultMatchWeights
	}
	return &ProductMatcher{weights: weights}
}

// productProfile caches what the matcher derives from a catalog product
type productProfile struct {
	product models.Product
	specs   models.Specs
}

func newProductProfile(p models.Product) productProfile {
	specs := ExtractSpecs(p.Name)
	if specs.Brand == "" {
		specs.Brand = strings.TrimSpace(p.Brand)
	}
	return productProfile{product: p, specs: specs}
}

// Score returns the weighted similarity in [0,1] between a catalog product and a candidate
func (m *ProductMatcher) Score(p models.Product, c models.Candidate) float64 {
	return m.score(newProductProfile(p), c)
}

func (m *ProductMatcher) score(profile productProfile, c models.Candidate) float64 {
	var total, weight float64

	attributes := []struct {
		mine, theirs string
		weight       float64
	}{
		{profile.specs.Brand, c.Brand, m.weights.Brand},
		{profile.specs.Processor, c.Processor, m.weights.Processor},
		{profile.specs.RAM, c.RAM, m.weights.RAM},
		{profile.specs.Storage, c.Storage, m.weights.Storage},
	}

	// Attributes only count when both sides have them
	for _, attr := range attributes {
		if attr.mine == "" || attr.theirs == "" {
			continue
		}
		if strings.EqualFold(attr.mine, attr.theirs) {
			total += attr.weight
		}
		weight += attr.weight
	}

	total += TextSimilarity(profile.product.Name, c.Name) * m.weights.Text
	weight += m.weights.Text

	if weight == 0 {
		return 0
	}
	return total / weight
}

// Threshold returns the minimum score a candidate needs to be accepted for a
// product. A nil candidate gets the base threshold without the brand bonus.
func (m *ProductMatcher) Threshold(p models.Product, c *models.Candidate) float64 {
	threshold := baseThreshold

	brand := strings.TrimSpace(p.Brand)
	if brand == "" {
		brand = ExtractBrand(p.Name)
	}
	if c != nil && brand != "" && c.Brand != "" && strings.EqualFold(brand, c.Brand) {
		threshold = brandMatchThreshold
	}

	if thresholdGamingRegex.MatchString(p.Name) {
		threshold += gamingAdjustment
	}
	if thresholdBudgetRegex.MatchString(p.Name) {
		threshold -= budgetAdjustment
	}

	threshold = math.Max(minThreshold, math.Min(threshold, maxThreshold))
	return math.Round(threshold*100) / 100
}

// TextSimilarity compares two names word by word after normalization.
// Exact shared words count fully, substring overlaps add a smaller bonus.
func TextSimilarity(a, b string) float64 {
	words1 := significantWords(NormalizeProductName(a))
	words2 := significantWords(NormalizeProductName(b))

	if len(words1) == 0 || len(words2) == 0 {
		return 0
	}

	set2 := make(map[string]bool, len(words2))
	for _, w := range words2 {
		set2[w] = true
	}

	common := 0
	partial := 0.0
	for _, w1 := range words1 {
		if set2[w1] {
			common++
		}
		for _, w2 := range words2 {
			if strings.Contains(w1, w2) || strings.Contains(w2, w1) {
				partial += partialMatchCredit
				break
			}
		}
	}

	longest := float64(max(len(words1), len(words2)))
	exactScore := float64(common) / longest
	partialScore := partial / longest

	return math.Min(exactScore+partialScore*partialMatchWeight, 1)
}

// significantWords drops tokens shorter than minTokenLength
func significantWords(normalized string) []string {
	var words []string
	for _, w := range strings.Split(normalized, " ") {
		if utf8.RuneCountInString(w) >= minTokenLength {
			words = append(words, w)
		}
	}
	return words
}
