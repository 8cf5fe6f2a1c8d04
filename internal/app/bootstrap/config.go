package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the escrow settlement
// service. It merges file defaults and environment overrides to support both
// local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	// JWTPublicKeyPEM enables token verification. When empty the service runs
	// in gateway-trust mode and accepts the forwarded subject id as identity.
	JWTPublicKeyPEM string

	FeePercent        decimal.Decimal
	ExpiryWindow      time.Duration
	MinimumAmount     decimal.Decimal
	IdempotencyTTL    time.Duration
	CreateMaxAttempts int

	MaxDBConns         int32
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Escrow struct {
		FeePercent    string `yaml:"fee_percent"`
		ExpiryDays    int    `yaml:"expiry_days"`
		MinimumAmount string `yaml:"minimum_amount"`
	} `yaml:"escrow"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "escrow-settlement-service",
		HTTPPort:           8080,
		GRPCPort:           9090,
		FeePercent:         decimal.RequireFromString("2.5"),
		ExpiryWindow:       30 * 24 * time.Hour,
		MinimumAmount:      decimal.Zero,
		IdempotencyTTL:     7 * 24 * time.Hour,
		CreateMaxAttempts:  3,
		MaxDBConns:         20,
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		OutboxClaimTTL:     30 * time.Second,
		OutboxMaxRetries:   5,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Escrow.FeePercent != "" {
			cfg.FeePercent, err = decimal.NewFromString(f.Escrow.FeePercent)
			if err != nil {
				return Config{}, fmt.Errorf("parse escrow.fee_percent: %w", err)
			}
		}
		if f.Escrow.ExpiryDays > 0 {
			cfg.ExpiryWindow = time.Duration(f.Escrow.ExpiryDays) * 24 * time.Hour
		}
		if f.Escrow.MinimumAmount != "" {
			cfg.MinimumAmount, err = decimal.NewFromString(f.Escrow.MinimumAmount)
			if err != nil {
				return Config{}, fmt.Errorf("parse escrow.minimum_amount: %w", err)
			}
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTPublicKeyPEM = envOrDefault("JWT_PUBLIC_KEY_PEM", cfg.JWTPublicKeyPEM)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	if raw := os.Getenv("ESCROW_FEE_PERCENT"); raw != "" {
		cfg.FeePercent, err = decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse ESCROW_FEE_PERCENT: %w", err)
		}
	}
	if raw := os.Getenv("ESCROW_MINIMUM_AMOUNT"); raw != "" {
		cfg.MinimumAmount, err = decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse ESCROW_MINIMUM_AMOUNT: %w", err)
		}
	}
	cfg.ExpiryWindow = time.Duration(envInt("ESCROW_EXPIRY_DAYS", int(cfg.ExpiryWindow.Hours()/24))) * 24 * time.Hour
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_DAYS", int(cfg.IdempotencyTTL.Hours()/24))) * 24 * time.Hour
	cfg.CreateMaxAttempts = envInt("CREATE_MAX_ATTEMPTS", cfg.CreateMaxAttempts)

	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxClaimTTL = time.Duration(envInt("OUTBOX_CLAIM_TTL_SECONDS", int(cfg.OutboxClaimTTL.Seconds()))) * time.Second
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.FeePercent.IsNegative() {
		return Config{}, fmt.Errorf("escrow fee percent must not be negative")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
