package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rationcart/backend/config"
	httpDelivery "github.com/rationcart/backend/internal/delivery/http"
	"github.com/rationcart/backend/internal/domain"
	"github.com/rationcart/backend/internal/infrastructure/cache"
	"github.com/rationcart/backend/internal/infrastructure/retailer"
	"github.com/rationcart/backend/internal/infrastructure/store"
	"github.com/rationcart/backend/internal/infrastructure/vision"
	"github.com/rationcart/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting RationCart Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Database: %s", cfg.Database.Path)

	// Infrastructure
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	memCache := cache.NewMemoryCache()
	log.Printf("Cache freshness window: %s", cfg.Cache.Freshness)

	ocrClient := vision.NewClient(cfg.OCR.APIKey, cfg.OCR.BaseURL)
	retailerClient := retailer.NewClient(cfg.Scrape.RequestsPerSecond, cfg.Scrape.Timeout)
	fallback := retailer.NewFallbackProvider(nil)

	if cfg.Server.Environment == "development" {
		ocrClient.SetDebug(true)
		retailerClient.SetDebug(true)
		log.Printf("Client debug mode enabled")
	}

	// Usecase layer
	extractor := usecase.NewTextExtractor(cfg.Matching.EnableDebugLogging)
	matcher := usecase.NewProductMatcher(usecase.MatchConfig{
		MinScore:           cfg.Matching.MinScore,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	platforms := domain.ActionablePlatforms
	if cfg.Scrape.EnableAuxPlatforms {
		platforms = []domain.Platform{
			domain.PlatformJioMart, domain.PlatformBigBasket,
			domain.PlatformDMart, domain.PlatformAmazonFresh,
		}
		log.Printf("Auxiliary price-signal platforms enabled")
	}

	listService := usecase.NewListService(db, ocrClient, extractor)
	comparisonService := usecase.NewComparisonService(
		retailerClient,
		memCache,
		db,
		db,
		matcher,
		fallback,
		usecase.ComparisonServiceConfig{
			CacheFreshness: cfg.Cache.Freshness,
			CourtesyDelay:  cfg.Scrape.CourtesyDelay,
			Platforms:      platforms,
		},
	)
	cartService := usecase.NewCartService(db, nil, 800*time.Millisecond)

	log.Printf("Matching: min_score=%.2f, platforms=%v", cfg.Matching.MinScore, platforms)

	// HTTP delivery
	handler := httpDelivery.NewHandler(listService, comparisonService, cartService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
