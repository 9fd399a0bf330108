package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "APP_ENV", "CART_STORE", "DELIVERY_FEE", "FREE_DELIVERY_THRESHOLD",
		"SESSION_SECRET", "SESSION_TTL", "CURRENCY_SYMBOL", "NEWSLETTER_PROMPT_DELAY", "DATABASE_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CartStoreSQLite, cfg.CartStore)
	assert.Equal(t, 5.00, cfg.DeliveryFee)
	assert.Equal(t, 50.00, cfg.FreeDeliveryThreshold)
	assert.Equal(t, "$", cfg.CurrencySymbol)
	assert.Equal(t, 10*time.Second, cfg.NewsletterPromptDelay)
	assert.Equal(t, "dev-session-secret", cfg.SessionSecret)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("CART_STORE", "Memory")
	t.Setenv("DELIVERY_FEE", "7.5")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, CartStoreMemory, cfg.CartStore)
	assert.Equal(t, 7.5, cfg.DeliveryFee)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Run("unknown cart store", func(t *testing.T) {
		t.Setenv("CART_STORE", "redis")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "invalid CART_STORE")
	})

	t.Run("postgres cart store without database", func(t *testing.T) {
		t.Setenv("CART_STORE", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "requires DATABASE_URL")
	})

	t.Run("bad fee", func(t *testing.T) {
		t.Setenv("CART_STORE", "")
		t.Setenv("DELIVERY_FEE", "five")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "DELIVERY_FEE")
	})

	t.Run("production needs a secret", func(t *testing.T) {
		t.Setenv("CART_STORE", "")
		t.Setenv("DELIVERY_FEE", "")
		t.Setenv("APP_ENV", "production")
		t.Setenv("SESSION_SECRET", "")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "SESSION_SECRET")
	})
}

func TestLoadStorefront_Default(t *testing.T) {
	sf, err := LoadStorefront("")
	require.NoError(t, err)

	assert.NotEmpty(t, sf.Products)
	assert.Len(t, sf.Quiz.Questions, 3)
	assert.Contains(t, sf.Quiz.Results, "default")
	assert.Contains(t, sf.Customizer.Flavors, "Vanilla")
	assert.Contains(t, sf.Customizer.Frostings, "Buttercream")
	assert.Contains(t, sf.Customizer.Sizes, SizeOption{Label: "6 inch", Price: 35.00})
}

func TestLoadStorefront_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
products:
  - name: Baguette
    price: 4
customizer:
  sizes:
    - label: small
      price: 20
`), 0o644))

	sf, err := LoadStorefront(path)
	require.NoError(t, err)
	require.Len(t, sf.Products, 1)
	assert.Equal(t, "Baguette", sf.Products[0].Name)
	assert.Empty(t, sf.Quiz.Questions)
}

func TestParseStorefront_Rejects(t *testing.T) {
	_, err := ParseStorefront([]byte(`
quiz:
  questions:
    - question: Q?
      options: [a, b]
  results: {}
`))
	assert.ErrorContains(t, err, "default")

	_, err = ParseStorefront([]byte(`
customizer:
  sizes:
    - label: free
      price: 0
`))
	assert.ErrorContains(t, err, "positive price")

	_, err = ParseStorefront([]byte(`
products:
  - name: Baguette
    price: 4
customizer:
  flavors: [vanilla]
`))
	assert.ErrorContains(t, err, "at least one size")

	_, err = ParseStorefront([]byte("products: [\n"))
	assert.Error(t, err)
}
