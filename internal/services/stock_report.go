package services

import (
	"math"
	"strings"
	"time"

	"github.com/foxxcyber/stock-sync/internal/models"
)

const (
	AlgorithmVersion = "2.0"
	// ScopeAll labels an unset category or subcategory in the summary
	ScopeAll = "all"

	closestPreviewLength = 60
)

// BuildStockReport renders a reconciliation into the report consumed by the admin UI
func BuildStockReport(runID string, scope models.ProductScope, totalProducts int, rec models.Reconciliation, analyzedAt time.Time) *models.StockReport {
	report := &models.StockReport{
		Summary: models.StockSummary{
			RunID:            runID,
			TotalMyProducts:  totalProducts,
			InStock:          len(rec.Matched),
			OutOfStock:       len(rec.UnmatchedInternal),
			NewAvailable:     len(rec.UnmatchedCandidates),
			Category:         scopeLabel(scope.Category),
			Subcategory:      scopeLabel(scope.Subcategory),
			AnalysisDate:     analyzedAt.UTC(),
			AlgorithmVersion: AlgorithmVersion,
		},
		InStock:     make([]models.InStockEntry, 0, len(rec.Matched)),
		OutOfStock:  make([]models.OutOfStockEntry, 0, len(rec.UnmatchedInternal)),
		NewProducts: rec.UnmatchedCandidates,
	}
	if report.NewProducts == nil {
		report.NewProducts = []models.NewAvailable{}
	}

	for _, m := range rec.Matched {
		report.InStock = append(report.InStock, inStockEntry(m))
	}
	for _, m := range rec.UnmatchedInternal {
		report.OutOfStock = append(report.OutOfStock, outOfStockEntry(m))
	}

	return report
}

func inStockEntry(m models.MatchResult) models.InStockEntry {
	entry := models.InStockEntry{
		MyProduct:         m.Product,
		WholesalerProduct: *m.Candidate,
		Similarity:        percent(m.Score),
		Threshold:         percent(m.Threshold),
		Status:            m.Status,
		MatchDetails: models.MatchDetails{
			BrandMatch:     m.Product.Brand != "" && strings.EqualFold(m.Product.Brand, m.Candidate.Brand),
			ProcessorMatch: ExtractProcessor(m.Product.Name) != "" && ExtractProcessor(m.Product.Name) == m.Candidate.Processor,
			TextSimilarity: percent(m.TextSimilarity),
		},
	}
	if m.PriceComparison != nil {
		entry.PriceComparison = *m.PriceComparison
	}
	return entry
}

func outOfStockEntry(m models.MatchResult) models.OutOfStockEntry {
	entry := models.OutOfStockEntry{
		Product:        m.Product,
		Status:         m.Status,
		BestSimilarity: percent(m.Score),
		Threshold:      percent(m.Threshold),
	}
	if m.Closest != nil {
		entry.ClosestMatch = &models.ClosestMatch{
			Name:       previewName(m.Closest.Name),
			Similarity: percent(m.Score),
		}
	}
	return entry
}

// EmptyStockReport is returned when no catalog product is in scope
func EmptyStockReport(runID string, scope models.ProductScope, analyzedAt time.Time) *models.StockReport {
	return BuildStockReport(runID, scope, 0, models.Reconciliation{}, analyzedAt)
}

func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

func scopeLabel(value string) string {
	if value == "" {
		return ScopeAll
	}
	return value
}

func previewName(name string) string {
	runes := []rune(name)
	if len(runes) > closestPreviewLength {
		runes = runes[:closestPreviewLength]
	}
	return string(runes) + "..."
}
