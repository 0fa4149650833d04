package services

import (
	"strings"
	"unicode/utf8"

	"github.com/foxxcyber/stock-sync/internal/models"
)

const (
	fingerprintSeparator    = "|"
	fingerprintFallbackSize = 50
)

// Fingerprint derives the duplicate-detection key of a candidate from its
// extracted specs. Candidates without any spec fall back to a prefix of the
// normalized name, so near-duplicates among them can coexist.
func Fingerprint(c models.Candidate) string {
	var parts []string
	for _, v := range []string{c.Brand, c.Processor, c.RAM, c.Storage, c.ScreenSize} {
		if v != "" {
			parts = append(parts, v)
		}
	}

	if key := strings.ToLower(strings.Join(parts, fingerprintSeparator)); key != "" {
		return key
	}

	runes := []rune(c.NormalizedName)
	if len(runes) > fingerprintFallbackSize {
		runes = runes[:fingerprintFallbackSize]
	}
	return string(runes)
}

// DedupeCandidates drops candidates sharing a fingerprint. The survivor is the
// one with the longest raw name and it takes the position of the first
// occurrence.
func DedupeCandidates(candidates []models.Candidate) []models.Candidate {
	unique := make([]models.Candidate, 0, len(candidates))
	positions := make(map[string]int, len(candidates))

	for _, candidate := range candidates {
		key := Fingerprint(candidate)

		idx, seen := positions[key]
		if !seen {
			positions[key] = len(unique)
			unique = append(unique, candidate)
			continue
		}

		if utf8.RuneCountInString(candidate.Name) > utf8.RuneCountInString(unique[idx].Name) {
			unique[idx] = candidate
		}
	}

	return unique
}
