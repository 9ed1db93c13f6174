package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("RATIONCART_SERVER_PORT")
		os.Unsetenv("RATIONCART_SERVER_ENVIRONMENT")
		os.Unsetenv("RATIONCART_OCR_API_KEY")
		os.Unsetenv("RATIONCART_OCR_BASE_URL")
		os.Unsetenv("RATIONCART_DATABASE_PATH")
		os.Unsetenv("RATIONCART_CACHE_FRESHNESS")
		os.Unsetenv("RATIONCART_SCRAPE_REQUESTS_PER_SECOND")
		os.Unsetenv("RATIONCART_SCRAPE_COURTESY_DELAY")
		os.Unsetenv("RATIONCART_SCRAPE_ENABLE_AUX_PLATFORMS")
		os.Unsetenv("RATIONCART_MATCHING_MIN_SCORE")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RATIONCART_OCR_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.OCR.BaseURL != "https://vision.googleapis.com" {
			t.Errorf("OCR.BaseURL = %s, want https://vision.googleapis.com", cfg.OCR.BaseURL)
		}
		if cfg.Database.Path != "rationcart.db" {
			t.Errorf("Database.Path = %s, want rationcart.db", cfg.Database.Path)
		}
		if cfg.Cache.Freshness != 24*time.Hour {
			t.Errorf("Cache.Freshness = %v, want 24h", cfg.Cache.Freshness)
		}
		if cfg.Scrape.RequestsPerSecond != 2.0 {
			t.Errorf("Scrape.RequestsPerSecond = %v, want 2", cfg.Scrape.RequestsPerSecond)
		}
		if cfg.Scrape.CourtesyDelay != 500*time.Millisecond {
			t.Errorf("Scrape.CourtesyDelay = %v, want 500ms", cfg.Scrape.CourtesyDelay)
		}
		if cfg.Scrape.EnableAuxPlatforms {
			t.Error("Scrape.EnableAuxPlatforms = true, want false by default")
		}
		if cfg.Matching.MinScore != 0.3 {
			t.Errorf("Matching.MinScore = %v, want 0.3", cfg.Matching.MinScore)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RATIONCART_SERVER_PORT", "9090")
		os.Setenv("RATIONCART_SERVER_ENVIRONMENT", "production")
		os.Setenv("RATIONCART_OCR_API_KEY", "custom-api-key")
		os.Setenv("RATIONCART_OCR_BASE_URL", "https://ocr.example.com")
		os.Setenv("RATIONCART_DATABASE_PATH", "/var/lib/rationcart/data.db")
		os.Setenv("RATIONCART_CACHE_FRESHNESS", "1h")
		os.Setenv("RATIONCART_SCRAPE_REQUESTS_PER_SECOND", "5")
		os.Setenv("RATIONCART_SCRAPE_ENABLE_AUX_PLATFORMS", "true")
		os.Setenv("RATIONCART_MATCHING_MIN_SCORE", "0.5")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.OCR.APIKey != "custom-api-key" {
			t.Errorf("OCR.APIKey = %s, want custom-api-key", cfg.OCR.APIKey)
		}
		if cfg.OCR.BaseURL != "https://ocr.example.com" {
			t.Errorf("OCR.BaseURL = %s, want https://ocr.example.com", cfg.OCR.BaseURL)
		}
		if cfg.Database.Path != "/var/lib/rationcart/data.db" {
			t.Errorf("Database.Path = %s", cfg.Database.Path)
		}
		if cfg.Cache.Freshness != time.Hour {
			t.Errorf("Cache.Freshness = %v, want 1h", cfg.Cache.Freshness)
		}
		if cfg.Scrape.RequestsPerSecond != 5 {
			t.Errorf("Scrape.RequestsPerSecond = %v, want 5", cfg.Scrape.RequestsPerSecond)
		}
		if !cfg.Scrape.EnableAuxPlatforms {
			t.Error("Scrape.EnableAuxPlatforms = false, want true")
		}
		if cfg.Matching.MinScore != 0.5 {
			t.Errorf("Matching.MinScore = %v, want 0.5", cfg.Matching.MinScore)
		}
	})

	t.Run("fails validation when OCR API key is missing", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing API key")
		}
	})

	t.Run("fails validation for out-of-range min score", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RATIONCART_OCR_API_KEY", "test-key")
		os.Setenv("RATIONCART_MATCHING_MIN_SCORE", "1.5")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for min_score > 1")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OCR:      OCRConfig{APIKey: "test-key", BaseURL: "https://vision.googleapis.com"},
			Database: DatabaseConfig{Path: "rationcart.db"},
			Cache:    CacheConfig{Freshness: 24 * time.Hour},
			Matching: MatchingConfig{MinScore: 0.3},
		}
	}

	t.Run("accepts a complete config", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("rejects empty API key", func(t *testing.T) {
		cfg := valid()
		cfg.OCR.APIKey = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty API key")
		}
	})

	t.Run("rejects empty database path", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Path = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty database path")
		}
	})

	t.Run("rejects negative min score", func(t *testing.T) {
		cfg := valid()
		cfg.Matching.MinScore = -0.1
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative min_score")
		}
	})

	t.Run("rejects negative cache freshness", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Freshness = -time.Hour
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative freshness")
		}
	})
}
