package usecase

import (
	"github.com/rationcart/backend/internal/domain"
)

// PriceArbiter picks the cheapest platform for an item and computes savings.
// Arbitration never fails: absent prices degrade to defaults.
type PriceArbiter struct{}

// NewPriceArbiter creates a new price arbiter
func NewPriceArbiter() *PriceArbiter {
	return &PriceArbiter{}
}

// Arbitrate reduces a set of per-platform listings for one item to a single
// comparison result. Auxiliary platforms collapse onto their actionable
// counterpart first, keeping the lower price when both report one. With two
// or more priced platforms the cheapest wins and savings is the spread; with
// one it wins with zero savings; with none the default platform is
// recommended with zero savings.
func (a *PriceArbiter) Arbitrate(itemName, quantity string, listings []domain.SourceListing) domain.PriceComparisonResult {
	result := domain.PriceComparisonResult{
		ItemName:            itemName,
		Quantity:            quantity,
		ProductNames:        make(map[domain.Platform]string),
		URLs:                make(map[domain.Platform]string),
		RecommendedPlatform: domain.DefaultPlatform,
	}

	collapsed := make(map[domain.Platform]domain.SourceListing)
	for _, listing := range listings {
		if listing.Price == nil {
			continue
		}
		target := listing.Platform.Actionable()
		existing, ok := collapsed[target]
		if !ok || *listing.Price < *existing.Price {
			listing.Platform = target
			collapsed[target] = listing
		}
	}

	perPlatform := make(map[domain.Platform]*float64, len(domain.ActionablePlatforms))
	for _, p := range domain.ActionablePlatforms {
		if listing, ok := collapsed[p]; ok {
			price := *listing.Price
			perPlatform[p] = &price
			result.ProductNames[p] = listing.ProductName
			result.URLs[p] = listing.URL
		} else {
			perPlatform[p] = nil
		}
	}
	result.PerPlatform = perPlatform

	var priced []domain.Platform
	for _, p := range domain.ActionablePlatforms {
		if perPlatform[p] != nil {
			priced = append(priced, p)
		}
	}

	if len(priced) == 0 {
		return result
	}

	cheapest := priced[0]
	minPrice := *perPlatform[cheapest]
	maxPrice := minPrice
	for _, p := range priced[1:] {
		price := *perPlatform[p]
		if price < minPrice {
			minPrice = price
			cheapest = p
		}
		if price > maxPrice {
			maxPrice = price
		}
	}

	result.RecommendedPlatform = cheapest
	if len(priced) >= 2 {
		savings := maxPrice - minPrice
		if savings < 0 {
			savings = 0
		}
		result.Savings = savings
	}

	return result
}
