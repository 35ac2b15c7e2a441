// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"` // public origin, used for gateway redirect URLs
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port      int    `yaml:"port"`
	APIKey    string `yaml:"api_key"`
	JWTSecret string `yaml:"jwt_secret"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type MonnifyConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	SecretKey    string `yaml:"secret_key"`
	ContractCode string `yaml:"contract_code"`
	Currency     string `yaml:"currency"`
}

type CheckoutConfig struct {
	DomainCostNGN     int64         `yaml:"domain_cost_ngn"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
	IdempotencyWindow time.Duration `yaml:"idempotency_window"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	ReconcileStale    time.Duration `yaml:"reconcile_stale"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Monnify  MonnifyConfig  `yaml:"monnify"`
	Checkout CheckoutConfig `yaml:"checkout"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	if cfg.Admin.Port <= 0 {
		cfg.Admin.Port = 9090
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Monnify.BaseURL == "" {
		cfg.Monnify.BaseURL = "https://sandbox.monnify.com"
	}
	if cfg.Monnify.Currency == "" {
		cfg.Monnify.Currency = "NGN"
	}
	if cfg.Checkout.DomainCostNGN <= 0 {
		cfg.Checkout.DomainCostNGN = 7500
	}
	if cfg.Checkout.SessionTTL <= 0 {
		cfg.Checkout.SessionTTL = 24 * time.Hour
	}
	if cfg.Checkout.IdempotencyWindow <= 0 {
		cfg.Checkout.IdempotencyWindow = 90 * time.Second
	}
	if cfg.Checkout.ReconcileInterval <= 0 {
		cfg.Checkout.ReconcileInterval = time.Minute
	}
	if cfg.Checkout.ReconcileStale <= 0 {
		cfg.Checkout.ReconcileStale = 10 * time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
