package domain

import "time"

// Platform identifies a retail source. JioMart and BigBasket are the two
// actionable platforms a recommendation can resolve to; DMart and AmazonFresh
// are auxiliary price-signal sources that collapse onto the actionable pair
// before results reach the user.
type Platform string

const (
	PlatformJioMart     Platform = "jiomart"
	PlatformBigBasket   Platform = "bigbasket"
	PlatformDMart       Platform = "dmart"
	PlatformAmazonFresh Platform = "amazonfresh"
)

// DefaultPlatform is recommended when no platform has a known price
const DefaultPlatform = PlatformJioMart

// ActionablePlatforms are the checkout targets presented to the user
var ActionablePlatforms = []Platform{PlatformJioMart, PlatformBigBasket}

// Actionable maps any platform onto one of the two checkout targets.
// Auxiliary sources contribute price signal only: DMart rides with JioMart,
// AmazonFresh with BigBasket. Unknown platforms map to the default.
func (p Platform) Actionable() Platform {
	switch p {
	case PlatformJioMart, PlatformBigBasket:
		return p
	case PlatformDMart:
		return PlatformJioMart
	case PlatformAmazonFresh:
		return PlatformBigBasket
	default:
		return DefaultPlatform
	}
}

// CartURL returns the platform's cart page for the post-automation handoff
func (p Platform) CartURL() string {
	switch p {
	case PlatformJioMart:
		return "https://www.jiomart.com/cart"
	case PlatformBigBasket:
		return "https://www.bigbasket.com/cart"
	default:
		return "https://www.jiomart.com/cart"
	}
}

// SourceListing is one retailer's best candidate for an item lookup.
// Nil Price means no match was found on that platform; that is a normal
// outcome, not an error.
type SourceListing struct {
	Platform    Platform  `json:"platform"`
	ProductName string    `json:"productName,omitempty"`
	Price       *float64  `json:"price"`
	PackSize    string    `json:"packSize,omitempty"`
	URL         string    `json:"url,omitempty"`
	MatchScore  float64   `json:"matchScore,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt,omitempty"`
}

// PriceComparisonResult is the arbitrated outcome for a single item
type PriceComparisonResult struct {
	ItemName            string                `json:"itemName"`
	Quantity            string                `json:"quantity"`
	PerPlatform         map[Platform]*float64 `json:"pricePerPlatform"`
	ProductNames        map[Platform]string   `json:"productNames,omitempty"`
	URLs                map[Platform]string   `json:"urls,omitempty"`
	RecommendedPlatform Platform              `json:"recommendedPlatform"`
	Savings             float64               `json:"savings"`
}

// CachedListing is the persisted price-cache row for (item, platform)
type CachedListing struct {
	ItemName    string    `json:"itemName"`
	Platform    Platform  `json:"platform"`
	ProductName string    `json:"productName"`
	Price       float64   `json:"price"`
	PackSize    string    `json:"packSize"`
	URL         string    `json:"url"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// CartSessionStatus tracks a cart automation run
type CartSessionStatus string

const (
	CartStatusPending    CartSessionStatus = "pending"
	CartStatusProcessing CartSessionStatus = "processing"
	CartStatusCompleted  CartSessionStatus = "completed"
	CartStatusFailed     CartSessionStatus = "failed"
)

// CartSession records one simulated add-to-cart automation run
type CartSession struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	ListID        string            `json:"listId"`
	Platform      Platform          `json:"platform"`
	Items         []ExtractedItem   `json:"items"`
	Status        CartSessionStatus `json:"status"`
	AutomationLog string            `json:"automationLog,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}
