package retailer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/rationcart/backend/internal/domain"
)

func TestFallbackKnownItems(t *testing.T) {
	provider := NewFallbackProvider(rand.New(rand.NewSource(1)))

	tests := []struct {
		item      string
		platform  domain.Platform
		wantName  string
		wantPrice float64
		wantPack  string
	}{
		{"wheat flour", domain.PlatformJioMart, "Aashirvaad Atta", 240, "5kg"},
		{"wheat flour", domain.PlatformBigBasket, "Pillsbury Atta", 235, "5kg"},
		{"rice", domain.PlatformJioMart, "India Gate Basmati Rice", 520, "10kg"},
		{"milk", domain.PlatformBigBasket, "Nandini Milk", 55, "1L"},
		{"eggs", domain.PlatformJioMart, "Farm Fresh Eggs", 180, "30 pieces"},
	}

	for _, tt := range tests {
		t.Run(tt.item+"/"+string(tt.platform), func(t *testing.T) {
			got := provider.Listing(tt.item, tt.platform)
			if got.ProductName != tt.wantName {
				t.Errorf("ProductName = %q, want %q", got.ProductName, tt.wantName)
			}
			if got.Price == nil || *got.Price != tt.wantPrice {
				t.Errorf("Price = %v, want %v", got.Price, tt.wantPrice)
			}
			if got.PackSize != tt.wantPack {
				t.Errorf("PackSize = %q, want %q", got.PackSize, tt.wantPack)
			}
			if got.Platform != tt.platform {
				t.Errorf("Platform = %s, want %s", got.Platform, tt.platform)
			}
			if got.URL == "" {
				t.Error("URL is empty")
			}
		})
	}
}

func TestFallbackKeyNormalization(t *testing.T) {
	provider := NewFallbackProvider(rand.New(rand.NewSource(1)))

	got := provider.Listing("  Wheat Flour ", domain.PlatformJioMart)
	if got.ProductName != "Aashirvaad Atta" {
		t.Errorf("ProductName = %q, want table hit after normalization", got.ProductName)
	}
}

func TestFallbackAuxiliaryPlatformsShareTables(t *testing.T) {
	provider := NewFallbackProvider(rand.New(rand.NewSource(1)))

	dmart := provider.Listing("sugar", domain.PlatformDMart)
	if dmart.ProductName != "Dhampure Sugar" || *dmart.Price != 90 {
		t.Errorf("dmart listing = %q/%v, want JioMart table entry", dmart.ProductName, *dmart.Price)
	}
	if dmart.Platform != domain.PlatformDMart {
		t.Errorf("Platform = %s, want dmart preserved on the listing", dmart.Platform)
	}

	amazon := provider.Listing("sugar", domain.PlatformAmazonFresh)
	if amazon.ProductName != "More Sugar" || *amazon.Price != 95 {
		t.Errorf("amazonfresh listing = %q/%v, want BigBasket table entry", amazon.ProductName, *amazon.Price)
	}
}

func TestFallbackUnknownItem(t *testing.T) {
	provider := NewFallbackProvider(rand.New(rand.NewSource(42)))

	for _, platform := range []domain.Platform{domain.PlatformJioMart, domain.PlatformBigBasket} {
		got := provider.Listing("dragon fruit", platform)

		if got.ProductName == "" {
			t.Errorf("%s: ProductName is empty", platform)
		}
		if !strings.HasPrefix(got.ProductName, "dragon fruit") {
			t.Errorf("%s: ProductName = %q, want item name prefix", platform, got.ProductName)
		}
		lo, hi := PriceBucket(platform)
		if got.Price == nil || *got.Price < lo || *got.Price > hi {
			t.Errorf("%s: Price = %v, want within [%v, %v]", platform, got.Price, lo, hi)
		}
		if !strings.Contains(got.URL, "dragon-fruit") {
			t.Errorf("%s: URL = %q, want slugged item name", platform, got.URL)
		}
	}
}

func TestFallbackUnknownItemDeterministicWithSeed(t *testing.T) {
	a := NewFallbackProvider(rand.New(rand.NewSource(7)))
	b := NewFallbackProvider(rand.New(rand.NewSource(7)))

	pa := *a.Listing("quinoa", domain.PlatformJioMart).Price
	pb := *b.Listing("quinoa", domain.PlatformJioMart).Price
	if pa != pb {
		t.Errorf("prices diverged for the same seed: %v vs %v", pa, pb)
	}
}

func TestPriceBucketCollapsesAuxPlatforms(t *testing.T) {
	jioLo, jioHi := PriceBucket(domain.PlatformJioMart)
	dmartLo, dmartHi := PriceBucket(domain.PlatformDMart)
	if jioLo != dmartLo || jioHi != dmartHi {
		t.Errorf("dmart bucket [%v, %v] != jiomart bucket [%v, %v]", dmartLo, dmartHi, jioLo, jioHi)
	}

	bbLo, _ := PriceBucket(domain.PlatformBigBasket)
	if bbLo == jioLo {
		t.Error("bigbasket and jiomart buckets share a base, want distinct bases")
	}
}
