package retailer

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rationcart/backend/internal/domain"
)

// fallbackEntry is a static price record used when live matching yields no
// acceptable candidate
type fallbackEntry struct {
	name  string
	price float64
	pack  string
	url   string
}

// Static per-platform price tables keyed by normalized item name. Prices are
// plausible shelf prices for the standard pack, not live quotes.
var jioMartFallback = map[string]fallbackEntry{
	"wheat flour": {"Aashirvaad Atta", 240, "5kg", "https://jiomart.com/atta"},
	"rice":        {"India Gate Basmati Rice", 520, "10kg", "https://jiomart.com/rice"},
	"sugar":       {"Dhampure Sugar", 90, "2kg", "https://jiomart.com/sugar"},
	"oil":         {"Fortune Sunflower Oil", 180, "1L", "https://jiomart.com/oil"},
	"lentils":     {"Toor Dal", 120, "1kg", "https://jiomart.com/dal"},
	"chickpea":    {"Chana Dal", 100, "1kg", "https://jiomart.com/chana"},
	"onion":       {"Fresh Onions", 40, "2kg", "https://jiomart.com/onion"},
	"potato":      {"Fresh Potatoes", 35, "3kg", "https://jiomart.com/potato"},
	"tomato":      {"Fresh Tomatoes", 45, "1kg", "https://jiomart.com/tomato"},
	"milk":        {"Amul Milk", 60, "1L", "https://jiomart.com/milk"},
	"eggs":        {"Farm Fresh Eggs", 180, "30 pieces", "https://jiomart.com/eggs"},
}

var bigBasketFallback = map[string]fallbackEntry{
	"wheat flour": {"Pillsbury Atta", 235, "5kg", "https://bigbasket.com/atta"},
	"rice":        {"Dawat Basmati Rice", 540, "10kg", "https://bigbasket.com/rice"},
	"sugar":       {"More Sugar", 95, "2kg", "https://bigbasket.com/sugar"},
	"oil":         {"Saffola Gold Oil", 185, "1L", "https://bigbasket.com/oil"},
	"lentils":     {"Organic Toor Dal", 130, "1kg", "https://bigbasket.com/dal"},
	"chickpea":    {"Organic Chana Dal", 95, "1kg", "https://bigbasket.com/chana"},
	"onion":       {"Farm Fresh Onions", 38, "2kg", "https://bigbasket.com/onion"},
	"potato":      {"Fresh Potatoes", 42, "3kg", "https://bigbasket.com/potato"},
	"tomato":      {"Organic Tomatoes", 55, "1kg", "https://bigbasket.com/tomato"},
	"milk":        {"Nandini Milk", 55, "1L", "https://bigbasket.com/milk"},
	"eggs":        {"Country Eggs", 190, "30 pieces", "https://bigbasket.com/eggs"},
}

var fallbackTables = map[domain.Platform]map[string]fallbackEntry{
	domain.PlatformJioMart:   jioMartFallback,
	domain.PlatformBigBasket: bigBasketFallback,
	// Auxiliary platforms reuse their actionable counterpart's table; their
	// contribution is price signal only.
	domain.PlatformDMart:       jioMartFallback,
	domain.PlatformAmazonFresh: bigBasketFallback,
}

// Price bucket bounds for items with no table entry: a pseudo-random price
// in [base, base+spread) keeps the placeholder plausible
const (
	randomPriceSpread        = 200
	jioMartRandomPriceBase   = 50
	bigBasketRandomPriceBase = 45
)

// FallbackProvider serves static fallback listings. The random source used
// for unknown items is injectable so tests can pin a seed; when nil, an
// unseeded source is used and unknown-item prices are non-deterministic on
// purpose (plausible placeholder behavior).
type FallbackProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFallbackProvider creates a fallback provider. Pass a seeded *rand.Rand
// for deterministic placeholder prices, or nil for production behavior.
func NewFallbackProvider(rng *rand.Rand) *FallbackProvider {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FallbackProvider{rng: rng}
}

// Listing returns the static fallback listing for (itemName, platform).
// Known items are fully deterministic; unknown items get a placeholder name
// and a price drawn from the platform's price bucket.
func (f *FallbackProvider) Listing(itemName string, platform domain.Platform) domain.SourceListing {
	key := strings.ToLower(strings.TrimSpace(itemName))
	table := fallbackTables[platform]
	if table == nil {
		table = jioMartFallback
	}

	if entry, ok := table[key]; ok {
		price := entry.price
		return domain.SourceListing{
			Platform:    platform,
			ProductName: entry.name,
			Price:       &price,
			PackSize:    entry.pack,
			URL:         entry.url,
			FetchedAt:   time.Now(),
		}
	}

	base := jioMartRandomPriceBase
	if platform.Actionable() == domain.PlatformBigBasket {
		base = bigBasketRandomPriceBase
	}

	f.mu.Lock()
	price := float64(f.rng.Intn(randomPriceSpread) + base)
	f.mu.Unlock()

	slug := strings.ReplaceAll(key, " ", "-")
	return domain.SourceListing{
		Platform:    platform,
		ProductName: itemName + " - " + platformLabel(platform),
		Price:       &price,
		PackSize:    "1kg",
		URL:         "https://" + string(platform.Actionable()) + ".com/" + slug,
		FetchedAt:   time.Now(),
	}
}

// PriceBucket returns the [min, max] placeholder price range for a platform,
// exposed so tests can assert fallback prices land inside the bucket
func PriceBucket(platform domain.Platform) (min, max float64) {
	base := jioMartRandomPriceBase
	if platform.Actionable() == domain.PlatformBigBasket {
		base = bigBasketRandomPriceBase
	}
	return float64(base), float64(base + randomPriceSpread - 1)
}

func platformLabel(p domain.Platform) string {
	switch p.Actionable() {
	case domain.PlatformBigBasket:
		return "BigBasket"
	default:
		return "JioMart"
	}
}
