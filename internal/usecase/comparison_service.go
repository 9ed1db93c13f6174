package usecase

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/rationcart/backend/internal/domain"
	"github.com/rationcart/backend/internal/infrastructure/retailer"
)

// FallbackSource serves static listings when live matching comes up empty
type FallbackSource interface {
	Listing(itemName string, platform domain.Platform) domain.SourceListing
}

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	CacheFreshness time.Duration
	CourtesyDelay  time.Duration
	Platforms      []domain.Platform
}

// ComparisonService looks up an item's price on every configured platform
// and arbitrates the results. Flow per (item, platform): fresh cache row ->
// live fetch + pattern extraction + matching -> static fallback. Lookup
// failures never escape; they degrade to the fallback listing.
type ComparisonService struct {
	retailerClient domain.RetailerClient
	memCache       domain.CacheRepository
	priceCache     domain.PriceCacheRepository
	history        domain.ComparisonRepository
	matcher        *ProductMatcher
	arbiter        *PriceArbiter
	fallback       FallbackSource
	cacheFreshness time.Duration
	courtesyDelay  time.Duration
	platforms      []domain.Platform
}

// NewComparisonService creates a comparison service with its dependencies
func NewComparisonService(
	retailerClient domain.RetailerClient,
	memCache domain.CacheRepository,
	priceCache domain.PriceCacheRepository,
	history domain.ComparisonRepository,
	matcher *ProductMatcher,
	fallback FallbackSource,
	config ComparisonServiceConfig,
) *ComparisonService {
	freshness := config.CacheFreshness
	if freshness == 0 {
		freshness = 24 * time.Hour
	}

	platforms := config.Platforms
	if len(platforms) == 0 {
		platforms = domain.ActionablePlatforms
	}

	return &ComparisonService{
		retailerClient: retailerClient,
		memCache:       memCache,
		priceCache:     priceCache,
		history:        history,
		matcher:        matcher,
		arbiter:        NewPriceArbiter(),
		fallback:       fallback,
		cacheFreshness: freshness,
		courtesyDelay:  config.CourtesyDelay,
		platforms:      platforms,
	}
}

// CompareAll produces one arbitrated comparison per item. Items are handled
// sequentially with a courtesy delay between them; the per-platform lookups
// for a single item run concurrently and are joined before arbitration.
func (s *ComparisonService) CompareAll(ctx context.Context, items []domain.ExtractedItem) []domain.PriceComparisonResult {
	results := make([]domain.PriceComparisonResult, 0, len(items))

	for i, item := range items {
		if i > 0 && s.courtesyDelay > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(s.courtesyDelay):
			}
		}

		results = append(results, s.CompareItem(ctx, item))
	}

	return results
}

// CompareAndStore runs CompareAll and persists the results against the list.
// A history write failure is logged and swallowed: the in-memory results are
// still valid without it.
func (s *ComparisonService) CompareAndStore(ctx context.Context, listID string, items []domain.ExtractedItem) []domain.PriceComparisonResult {
	results := s.CompareAll(ctx, items)

	if s.history != nil && len(results) > 0 {
		if err := s.history.SaveAll(ctx, listID, results); err != nil {
			log.Printf("[SCRAPE] failed to persist comparisons for list %s: %v", listID, err)
		}
	}

	return results
}

// History returns the stored comparisons for a list
func (s *ComparisonService) History(ctx context.Context, listID string) ([]domain.PriceComparisonResult, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListByList(ctx, listID)
}

// CompareItem resolves one item across all configured platforms
func (s *ComparisonService) CompareItem(ctx context.Context, item domain.ExtractedItem) domain.PriceComparisonResult {
	listings := make([]domain.SourceListing, len(s.platforms))

	var wg sync.WaitGroup
	for i, platform := range s.platforms {
		wg.Add(1)
		go func(i int, platform domain.Platform) {
			defer wg.Done()
			listings[i] = s.lookup(ctx, item.NormalizedName, platform)
		}(i, platform)
	}
	wg.Wait()

	return s.arbiter.Arbitrate(item.RawText, item.Quantity, listings)
}

// lookup resolves a single (item, platform) pair. It never fails: process
// cache first, then the persistent cache, then live matching, then the
// static fallback.
func (s *ComparisonService) lookup(ctx context.Context, itemName string, platform domain.Platform) domain.SourceListing {
	key := normalizeCacheKey(itemName)
	memKey := "price:" + key + ":" + string(platform)

	if s.memCache != nil {
		if value, err := s.memCache.Get(ctx, memKey); err == nil {
			if listing, ok := value.(domain.SourceListing); ok {
				return listing
			}
		}
	}

	if cached, err := s.priceCache.GetFresh(ctx, key, platform, s.cacheFreshness); err == nil {
		price := cached.Price
		listing := domain.SourceListing{
			Platform:    platform,
			ProductName: cached.ProductName,
			Price:       &price,
			PackSize:    cached.PackSize,
			URL:         cached.URL,
			FetchedAt:   cached.LastUpdated,
		}
		s.setMemCache(ctx, memKey, listing)
		return listing
	}

	listing := s.liveLookup(ctx, itemName, platform)

	if err := s.priceCache.Put(ctx, &domain.CachedListing{
		ItemName:    key,
		Platform:    platform,
		ProductName: listing.ProductName,
		Price:       derefPrice(listing.Price),
		PackSize:    listing.PackSize,
		URL:         listing.URL,
		LastUpdated: time.Now(),
	}); err != nil {
		// the in-memory listing is still valid without a cache write
		log.Printf("[SCRAPE] price cache write failed for %q on %s: %v", itemName, platform, err)
	}
	s.setMemCache(ctx, memKey, listing)

	return listing
}

func (s *ComparisonService) setMemCache(ctx context.Context, key string, listing domain.SourceListing) {
	if s.memCache == nil {
		return
	}
	if err := s.memCache.Set(ctx, key, listing, s.cacheFreshness); err != nil {
		log.Printf("[SCRAPE] memory cache write failed for %s: %v", key, err)
	}
}

func (s *ComparisonService) liveLookup(ctx context.Context, itemName string, platform domain.Platform) domain.SourceListing {
	corpus, err := s.retailerClient.FetchListings(ctx, platform, itemName)
	if err != nil {
		log.Printf("[SCRAPE] %s fetch failed for %q, using fallback: %v", platform, itemName, err)
		return s.fallback.Listing(itemName, platform)
	}

	candidates := retailer.ExtractListings(platform, corpus)
	best, err := s.matcher.FindBestMatch(ctx, itemName, candidates)
	if err != nil {
		return s.fallback.Listing(itemName, platform)
	}

	best.FetchedAt = time.Now()
	return *best
}

// normalizeCacheKey lowers and trims an item name for use as a cache key
func normalizeCacheKey(itemName string) string {
	return strings.TrimSpace(strings.ToLower(itemName))
}

func derefPrice(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
