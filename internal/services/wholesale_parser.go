package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/foxxcyber/stock-sync/internal/models"
)

const (
	// Description lines shorter than this are headers, codes or noise
	minProductLineLength = 50
	// Candidates whose name is not longer than this are discarded
	minCandidateNameLength = 15
	wholesalerCurrency     = "PYG"
)

// WholesaleParser extracts candidate products from a pasted wholesaler price list.
// The expected shape is a long description line followed by a G$ price line.
type WholesaleParser struct {
	productPattern   *regexp.Regexp
	pricePattern     *regexp.Regexp
	separatorPattern *regexp.Regexp
}

// NewWholesaleParser creates a new wholesale price list parser
func NewWholesaleParser() *WholesaleParser {
	return &WholesaleParser{
		productPattern:   regexp.MustCompile(`(?i)\b(notebook|laptop|pc|monitor|teclado|mouse|impresora|telefono|tablet)\b`),
		pricePattern:     regexp.MustCompile(`(?i)G\$\s*([\d,.]+)`),
		separatorPattern: regexp.MustCompile(`[,.]`),
	}
}

// Parse scans the dump for description/price line pairs. Lines that do not
// form a pair are skipped silently; unparsable input yields no candidates
// rather than an error.
func (p *WholesaleParser) Parse(text string) []models.Candidate {
	lines := strings.Split(text, "\n")
	candidates := []models.Candidate{}

	for i := 0; i < len(lines)-1; i++ {
		current := strings.TrimSpace(lines[i])
		next := strings.TrimSpace(lines[i+1])

		if !p.isProductLine(current) || !p.pricePattern.MatchString(next) {
			continue
		}

		candidate := p.parsePair(current, next)
		if utf8.RuneCountInString(strings.TrimSpace(candidate.Name)) > minCandidateNameLength {
			candidates = append(candidates, candidate)
		}

		// The price line is consumed with its description
		i++
	}

	return candidates
}

// isProductLine reports whether a trimmed line looks like a product description
func (p *WholesaleParser) isProductLine(line string) bool {
	return utf8.RuneCountInString(line) > minProductLineLength && p.productPattern.MatchString(line)
}

// parsePair builds a candidate from a description line and its price line
func (p *WholesaleParser) parsePair(productLine, priceLine string) models.Candidate {
	candidate := models.Candidate{
		Name:           productLine,
		NormalizedName: NormalizeProductName(productLine),
		Currency:       wholesalerCurrency,
		Original:       productLine + "\n" + priceLine,
		Specs:          ExtractSpecs(productLine),
	}

	if m := p.pricePattern.FindStringSubmatch(priceLine); m != nil {
		candidate.PriceFormatted = m[0]
		candidate.Price = p.parsePrice(m[1])
	}

	return candidate
}

// parsePrice strips thousands separators and parses the amount.
// Returns nil when nothing numeric is left.
func (p *WholesaleParser) parsePrice(raw string) *int64 {
	digits := p.separatorPattern.ReplaceAllString(raw, "")
	price, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &price
}
