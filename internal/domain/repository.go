package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for short-lived in-memory caching
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// OCRClient defines the interface for the external OCR provider
type OCRClient interface {
	ExtractText(ctx context.Context, imageBase64 string) (string, error)
}

// RetailerClient fetches a retailer's search-result corpus for an item.
// An empty corpus forces the static fallback path downstream.
type RetailerClient interface {
	FetchListings(ctx context.Context, platform Platform, itemName string) (string, error)
}

// ListRepository persists ration lists and their OCR results
type ListRepository interface {
	Create(ctx context.Context, list *RationList) error
	GetByID(ctx context.Context, userID, listID string) (*RationList, error)
	ListByUser(ctx context.Context, userID string) ([]*RationList, error)
	UpdateStatus(ctx context.Context, userID, listID string, status ListStatus) error
	SaveOCRResult(ctx context.Context, userID, listID, rawText string, items []ExtractedItem) error
}

// PriceCacheRepository persists price-cache rows keyed by (item, platform)
type PriceCacheRepository interface {
	GetFresh(ctx context.Context, itemName string, platform Platform, maxAge time.Duration) (*CachedListing, error)
	Put(ctx context.Context, listing *CachedListing) error
}

// ComparisonRepository persists arbitrated comparison results per list
type ComparisonRepository interface {
	SaveAll(ctx context.Context, listID string, results []PriceComparisonResult) error
	ListByList(ctx context.Context, listID string) ([]PriceComparisonResult, error)
}

// CartSessionRepository persists cart automation sessions
type CartSessionRepository interface {
	CreateSession(ctx context.Context, session *CartSession) error
	UpdateSession(ctx context.Context, session *CartSession) error
	GetSession(ctx context.Context, userID, sessionID string) (*CartSession, error)
}
