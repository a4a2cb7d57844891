package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// External feeds
	MetalsFeedURL    string
	MetalsFeedAPIKey string
	RatesFeedURLs    []string // tried in order
	FeedTimeout      time.Duration

	// Cache freshness
	NisabCacheTTL time.Duration
	RateCacheTTL  time.Duration

	// Refresh behavior
	RefreshDebounce   time.Duration
	MaxRefreshRetries int
	RetryBaseBackoff  time.Duration

	// API protection
	RefreshAPIKey  string // optional; empty disables the check
	RateLimit      string // ulule/limiter format, e.g. "60-M"
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("METALS_FEED_URL", "https://api.metals.dev/v1/latest")
	viper.SetDefault("METALS_FEED_API_KEY", "")
	viper.SetDefault("RATES_FEED_URLS", "https://api.frankfurter.app/latest,https://open.er-api.com/v6/latest")
	viper.SetDefault("FEED_TIMEOUT", "8s")
	viper.SetDefault("NISAB_CACHE_TTL", "5m")
	viper.SetDefault("RATE_CACHE_TTL", "1h")
	viper.SetDefault("REFRESH_DEBOUNCE", "2s")
	viper.SetDefault("MAX_REFRESH_RETRIES", 3)
	viper.SetDefault("RETRY_BASE_BACKOFF", "500ms")
	viper.SetDefault("REFRESH_API_KEY", "")
	viper.SetDefault("RATE_LIMIT", "60-M")
	viper.SetDefault("ALLOWED_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.MetalsFeedURL = viper.GetString("METALS_FEED_URL")
	cfg.MetalsFeedAPIKey = viper.GetString("METALS_FEED_API_KEY")
	if cfg.MetalsFeedAPIKey == "" {
		log.Println("Warning: METALS_FEED_API_KEY not set. Metals feed requests will be unauthenticated.")
	}

	ratesURLs := viper.GetString("RATES_FEED_URLS")
	for _, u := range strings.Split(ratesURLs, ",") {
		if u = strings.TrimSpace(u); u != "" {
			cfg.RatesFeedURLs = append(cfg.RatesFeedURLs, u)
		}
	}
	if len(cfg.RatesFeedURLs) == 0 {
		log.Println("Warning: RATES_FEED_URLS empty. Conversion will rely on the static rate table only.")
	}

	cfg.FeedTimeout = parseDurationOr("FEED_TIMEOUT", 8*time.Second)
	cfg.NisabCacheTTL = parseDurationOr("NISAB_CACHE_TTL", 5*time.Minute)
	cfg.RateCacheTTL = parseDurationOr("RATE_CACHE_TTL", time.Hour)
	cfg.RefreshDebounce = parseDurationOr("REFRESH_DEBOUNCE", 2*time.Second)
	cfg.RetryBaseBackoff = parseDurationOr("RETRY_BASE_BACKOFF", 500*time.Millisecond)

	cfg.MaxRefreshRetries = viper.GetInt("MAX_REFRESH_RETRIES")
	if cfg.MaxRefreshRetries <= 0 {
		cfg.MaxRefreshRetries = 3
		log.Printf("Warning: Invalid MAX_REFRESH_RETRIES. Defaulting to %d.\n", cfg.MaxRefreshRetries)
	}

	cfg.RefreshAPIKey = viper.GetString("REFRESH_API_KEY")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	for _, o := range strings.Split(viper.GetString("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
