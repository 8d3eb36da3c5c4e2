package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration, loaded from the environment so
// main stays lean.
//
// When DatabaseURL is empty the server runs on in-memory stores; when
// RedisURL is empty scan deduplication stays in the primary pack store.
type Config struct {
	Addr     string `env:"PHARMATRACE_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	// DeliveryUnitPriceCents is charged per delivered pack, receiver owing
	// sender. DefaultRetailPriceCents applies when a sale names no price.
	DeliveryUnitPriceCents  int64 `env:"DELIVERY_UNIT_PRICE_CENTS" envDefault:"850"`
	DefaultRetailPriceCents int64 `env:"DEFAULT_RETAIL_PRICE_CENTS" envDefault:"1200"`

	// AdminPINHash is the bcrypt hash of the operator PIN. The plaintext PIN
	// is never part of configuration.
	AdminPINHash  string        `env:"ADMIN_PIN_HASH"`
	JWTSigningKey string        `env:"JWT_SIGNING_KEY"`
	AdminTokenTTL time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"30m"`

	SeedDemoData bool `env:"SEED_DEMO_DATA"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DeliveryUnitPriceCents <= 0 {
		return Config{}, fmt.Errorf("DELIVERY_UNIT_PRICE_CENTS must be positive, got %d", cfg.DeliveryUnitPriceCents)
	}
	if cfg.DefaultRetailPriceCents <= 0 {
		return Config{}, fmt.Errorf("DEFAULT_RETAIL_PRICE_CENTS must be positive, got %d", cfg.DefaultRetailPriceCents)
	}
	return cfg, nil
}
