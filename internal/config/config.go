// Package config loads service settings from the environment (optionally seeded
// from a .env file) and storefront content from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cart persistence backends.
const (
	CartStoreMemory   = "memory"
	CartStoreSQLite   = "sqlite"
	CartStorePostgres = "postgres"
)

// Config holds every runtime setting of the storefront service.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// DatabaseURL selects Postgres repositories; empty means in-memory.
	DatabaseURL string

	CartStore     string
	CartStorePath string

	SessionSecret string
	SessionTTL    time.Duration

	AdminUsername     string
	AdminPasswordHash string

	StorefrontFile string
	CurrencySymbol string

	DeliveryFee           float64
	FreeDeliveryThreshold float64

	NewsletterPromptDelay time.Duration
}

// Load reads .env when present and then builds the Config from the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the Config from environment variables, applying defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              getenv("APP_PORT", "8080"),
		Env:               getenv("APP_ENV", "development"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		CartStore:         strings.ToLower(getenv("CART_STORE", CartStoreSQLite)),
		CartStorePath:     getenv("CART_STORE_PATH", "data/carts.db"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		AdminUsername:     getenv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		StorefrontFile:    os.Getenv("STOREFRONT_FILE"),
		CurrencySymbol:    getenv("CURRENCY_SYMBOL", "$"),
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.NewsletterPromptDelay, err = durationEnv("NEWSLETTER_PROMPT_DELAY", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.DeliveryFee, err = floatEnv("DELIVERY_FEE", 5.00); err != nil {
		return nil, err
	}
	if cfg.FreeDeliveryThreshold, err = floatEnv("FREE_DELIVERY_THRESHOLD", 50.00); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.CartStore {
	case CartStoreMemory, CartStoreSQLite:
	case CartStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("CART_STORE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("invalid CART_STORE %q (allowed: memory, sqlite, postgres)", c.CartStore)
	}
	if c.SessionSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		c.SessionSecret = "dev-session-secret"
	}
	if c.DeliveryFee < 0 || c.FreeDeliveryThreshold < 0 {
		return fmt.Errorf("delivery fee and threshold must not be negative")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
