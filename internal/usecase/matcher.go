package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/rationcart/backend/internal/domain"
)

// Scoring weights and bonuses
const (
	exactMatchScore     = 1.0
	substringMatchScore = 0.8
	wordMatchIncrement  = 0.05
	coverageBonus       = 0.1
	coverageThreshold   = 0.7
	lengthPenalty       = 0.2
	lengthPenaltyRatio  = 3
	brandBonus          = 0.1

	// defaultMinScore is the acceptance threshold below which a candidate is
	// rejected in favor of the static fallback listing
	defaultMinScore = 0.3
)

// knownBrands are grocery brands whose presence in a candidate name signals
// a real product listing rather than scraped page noise
var knownBrands = []string{
	"aashirvaad", "fortune", "tata", "amul", "india gate", "daawat", "dawat",
	"saffola", "pillsbury", "nandini", "dhampure", "patanjali", "mother dairy",
	"24 mantra", "organic india", "catch", "everest", "mdh",
}

// MatchConfig holds configuration for the product matcher
type MatchConfig struct {
	MinScore           float64
	EnableDebugLogging bool
}

// ProductMatcher scores retailer listing candidates against a search term
type ProductMatcher struct {
	minScore           float64
	enableDebugLogging bool
}

// NewProductMatcher creates a new product matcher with the given configuration
func NewProductMatcher(config MatchConfig) *ProductMatcher {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}

	return &ProductMatcher{
		minScore:           minScore,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// FindBestMatch returns the highest-scoring candidate that clears the
// acceptance threshold. Returns ErrNoMatch when no candidate qualifies,
// which callers treat as the signal to use the fallback listing.
func (m *ProductMatcher) FindBestMatch(
	ctx context.Context,
	searchTerm string,
	candidates []domain.SourceListing,
) (*domain.SourceListing, error) {
	if searchTerm == "" {
		return nil, domain.ErrInvalidRequest
	}

	if len(candidates) == 0 {
		return nil, domain.ErrNoMatch
	}

	var best *domain.SourceListing
	highest := -1.0

	for i := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score := m.scoreCandidate(searchTerm, candidates[i].ProductName)

		if m.enableDebugLogging {
			log.Printf("[MATCH] %s: %q vs %q -> %.2f",
				candidates[i].Platform, searchTerm, candidates[i].ProductName, score)
		}

		if score > highest {
			highest = score
			best = &candidates[i]
		}
	}

	if best == nil || highest <= m.minScore {
		return nil, domain.ErrNoMatch
	}

	result := *best
	result.MatchScore = highest
	return &result, nil
}

// scoreCandidate computes similarity between the search term and a candidate
// product name on a [0, 1] scale:
//   - exact equality scores 1.0
//   - substring containment starts at 0.8
//   - each matched significant word (length > 2) adds a small increment
//   - covering >=70% of the search words adds a bonus
//   - a candidate more than 3x the search term's length takes a penalty
//   - a recognized brand in the candidate adds a bonus
func (m *ProductMatcher) scoreCandidate(searchTerm, candidateName string) float64 {
	search := strings.ToLower(strings.TrimSpace(searchTerm))
	candidate := strings.ToLower(strings.TrimSpace(candidateName))

	if search == "" || candidate == "" {
		return 0
	}

	if search == candidate {
		return exactMatchScore
	}

	var score float64
	if strings.Contains(candidate, search) || strings.Contains(search, candidate) {
		score = substringMatchScore
	}

	searchWords := significantWords(search)
	matched := 0
	for _, word := range searchWords {
		if strings.Contains(candidate, word) {
			matched++
			score += wordMatchIncrement
		}
	}

	if len(searchWords) > 0 {
		coverage := float64(matched) / float64(len(searchWords))
		if coverage >= coverageThreshold {
			score += coverageBonus
		}
	}

	if len(candidate) > lengthPenaltyRatio*len(search) {
		score -= lengthPenalty
	}

	for _, brand := range knownBrands {
		if strings.Contains(candidate, brand) {
			score += brandBonus
			break
		}
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// significantWords returns the words of s longer than 2 characters
func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if len([]rune(w)) > 2 {
			words = append(words, w)
		}
	}
	return words
}
