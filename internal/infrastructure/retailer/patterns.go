package retailer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rationcart/backend/internal/domain"
)

// listingPattern pulls {name, price, url, packSize} tuples out of a retailer
// search-result fragment. Group indices refer to the pattern's submatches;
// a zero index means the field is absent from that pattern.
type listingPattern struct {
	re        *regexp.Regexp
	nameIdx   int
	priceIdx  int
	urlIdx    int
	packIdx   int
	urlPrefix string
}

// platformPatterns holds the per-platform extraction patterns. Retailer
// markup drifts constantly, so each platform carries both a structured-data
// pattern (embedded JSON product blobs) and a looser HTML card pattern.
var platformPatterns = map[domain.Platform][]listingPattern{
	domain.PlatformJioMart: {
		{
			re: regexp.MustCompile(`"name"\s*:\s*"([^"]+)"[^}]*?"price"\s*:\s*"?(\d+(?:\.\d+)?)"?[^}]*?"url"\s*:\s*"([^"]+)"`),
			nameIdx:  1,
			priceIdx: 2,
			urlIdx:   3,
		},
		{
			re: regexp.MustCompile(`class="plp-card-details-name"[^>]*>([^<]+)<[\s\S]{0,400}?₹\s*(\d+(?:\.\d+)?)`),
			nameIdx:   1,
			priceIdx:  2,
			urlPrefix: "https://www.jiomart.com",
		},
	},
	domain.PlatformBigBasket: {
		{
			re: regexp.MustCompile(`"desc"\s*:\s*"([^"]+)"[^}]*?"sp"\s*:\s*"(\d+(?:\.\d+)?)"(?:[^}]*?"pack_desc"\s*:\s*"([^"]*)")?`),
			nameIdx:  1,
			priceIdx: 2,
			packIdx:  3,
		},
		{
			re: regexp.MustCompile(`<h3[^>]*>([^<]+)</h3>[\s\S]{0,300}?Rs\.?\s*(\d+(?:\.\d+)?)`),
			nameIdx:   1,
			priceIdx:  2,
			urlPrefix: "https://www.bigbasket.com",
		},
	},
	domain.PlatformDMart: {
		{
			re: regexp.MustCompile(`"productName"\s*:\s*"([^"]+)"[^}]*?"salePrice"\s*:\s*(\d+(?:\.\d+)?)`),
			nameIdx:  1,
			priceIdx: 2,
		},
	},
	domain.PlatformAmazonFresh: {
		{
			re: regexp.MustCompile(`<span class="a-size-base-plus[^"]*">([^<]+)</span>[\s\S]{0,500}?<span class="a-price-whole">(\d+)`),
			nameIdx:  1,
			priceIdx: 2,
		},
	},
}

// packSizePattern recognizes a pack size inside a product name, e.g. "5 kg",
// "1 L", "500 g", "30 pieces"
var packSizePattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(kg|g|l|ltr|ml|pieces?|packs?)\b`)

// ExtractListings runs every pattern registered for the platform over the
// corpus and returns all candidate listings found. An unparseable corpus
// simply yields no candidates; the caller falls back from there.
func ExtractListings(platform domain.Platform, corpus string) []domain.SourceListing {
	var listings []domain.SourceListing

	for _, p := range platformPatterns[platform] {
		for _, match := range p.re.FindAllStringSubmatch(corpus, -1) {
			name := strings.TrimSpace(match[p.nameIdx])
			price, err := strconv.ParseFloat(match[p.priceIdx], 64)
			if name == "" || err != nil || price <= 0 {
				continue
			}

			listing := domain.SourceListing{
				Platform:    platform,
				ProductName: name,
				Price:       &price,
			}

			if p.urlIdx > 0 && p.urlIdx < len(match) {
				listing.URL = strings.TrimSpace(match[p.urlIdx])
			}
			if listing.URL == "" && p.urlPrefix != "" {
				listing.URL = p.urlPrefix
			}

			if p.packIdx > 0 && p.packIdx < len(match) && match[p.packIdx] != "" {
				listing.PackSize = strings.TrimSpace(match[p.packIdx])
			} else if m := packSizePattern.FindString(name); m != "" {
				listing.PackSize = strings.ToLower(m)
			}

			listings = append(listings, listing)
		}
	}

	return listings
}
