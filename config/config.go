package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	OCR      OCRConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Scrape   ScrapeConfig
	Matching MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OCRConfig holds OCR provider configuration
type OCRConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig holds persistence configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Freshness time.Duration `mapstructure:"freshness"`
}

// ScrapeConfig holds retailer lookup configuration
type ScrapeConfig struct {
	RequestsPerSecond  float64       `mapstructure:"requests_per_second"`
	Timeout            time.Duration `mapstructure:"timeout"`
	CourtesyDelay      time.Duration `mapstructure:"courtesy_delay"`
	EnableAuxPlatforms bool          `mapstructure:"enable_aux_platforms"`
}

// MatchingConfig holds product matching configuration
type MatchingConfig struct {
	MinScore           float64 `mapstructure:"min_score"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/rationcart/")

	v.SetEnvPrefix("RATIONCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover the rest
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("ocr.base_url", "https://vision.googleapis.com")

	v.SetDefault("database.path", "rationcart.db")

	// Cached prices are treated as stale after 24 hours
	v.SetDefault("cache.freshness", "24h")

	v.SetDefault("scrape.requests_per_second", 2.0)
	v.SetDefault("scrape.timeout", "15s")
	v.SetDefault("scrape.courtesy_delay", "500ms")
	v.SetDefault("scrape.enable_aux_platforms", false)

	v.SetDefault("matching.min_score", 0.3)
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OCR.APIKey == "" {
		return fmt.Errorf("OCR API key is required (set RATIONCART_OCR_API_KEY)")
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}

	if config.Matching.MinScore < 0 || config.Matching.MinScore > 1 {
		return fmt.Errorf("matching min_score must be within [0, 1], got: %v", config.Matching.MinScore)
	}

	if config.Cache.Freshness < 0 {
		return fmt.Errorf("cache freshness must not be negative")
	}

	return nil
}
