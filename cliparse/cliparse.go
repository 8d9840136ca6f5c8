// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database types
const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

// Rate limit backends
const (
	LimiterSQL   = "sql"
	LimiterRedis = "redis"
)

// SMS modes
const (
	SMSModeDemo = "demo"
	SMSModeNATS = "nats"
)

// DefaultPublicSalt matches the salt shipped in the browser client.
const DefaultPublicSalt = "JULISHA_KENYA_2026_PUBLIC_SALT"

// DefaultStoreTimeout bounds each store call when STORE_TIMEOUT is unset.
const DefaultStoreTimeout = 5 * time.Second

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Secrets
	ServerSalt string
	PublicSalt string
	AdminToken string

	RateLimitBackend string
	RedisURL         string

	SMSMode string
	NATSURL string

	StoreTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// DemoMode reports whether verification codes are echoed to the client
// instead of being dispatched by SMS.
func (c Config) DemoMode() bool {
	return c.SMSMode == SMSModeDemo
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file in the working directory is loaded first if present.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	fs := flag.NewFlagSet("julisha-api", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres or sqlite)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.ServerSalt, "server-salt", "", "Server-side hashing salt (prefer env)")
	fs.StringVar(&cfg.AdminToken, "admin-token", "", "Admin bearer token (prefer env)")

	fs.StringVar(&cfg.RateLimitBackend, "rate-limit", "", "Rate limit backend (sql or redis)")
	fs.StringVar(&cfg.SMSMode, "sms", "", "SMS mode (demo or nats)")
	fs.DurationVar(&cfg.StoreTimeout, "store-timeout", 0, "Timeout for each store call")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", DatabasePostgres)
	}
	if cfg.DatabaseType != DatabasePostgres && cfg.DatabaseType != DatabaseSQLite {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.ServerSalt == "" {
		cfg.ServerSalt = os.Getenv("SERVER_SALT")
	}
	if cfg.ServerSalt == "" {
		return Config{}, errors.New("SERVER_SALT required")
	}

	if cfg.AdminToken == "" {
		cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	}
	if cfg.AdminToken == "" {
		return Config{}, errors.New("ADMIN_TOKEN required")
	}

	cfg.PublicSalt = envOr("PUBLIC_SALT", DefaultPublicSalt)

	if cfg.RateLimitBackend == "" {
		cfg.RateLimitBackend = envOr("RATE_LIMIT_BACKEND", LimiterSQL)
	}
	cfg.RedisURL = os.Getenv("REDIS_URL")
	switch cfg.RateLimitBackend {
	case LimiterSQL:
	case LimiterRedis:
		if cfg.RedisURL == "" {
			return Config{}, errors.New("REDIS_URL required for redis rate limiting")
		}
	default:
		return Config{}, fmt.Errorf("unsupported rate limit backend %q", cfg.RateLimitBackend)
	}

	if cfg.SMSMode == "" {
		cfg.SMSMode = envOr("SMS_MODE", SMSModeDemo)
	}
	cfg.NATSURL = os.Getenv("NATS_URL")
	switch cfg.SMSMode {
	case SMSModeDemo:
	case SMSModeNATS:
		if cfg.NATSURL == "" {
			return Config{}, errors.New("NATS_URL required when SMS_MODE=nats")
		}
	default:
		return Config{}, fmt.Errorf("unsupported SMS mode %q", cfg.SMSMode)
	}

	if cfg.StoreTimeout == 0 {
		if v := os.Getenv("STORE_TIMEOUT"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid STORE_TIMEOUT env variable")
			}
			cfg.StoreTimeout = d
		} else {
			cfg.StoreTimeout = DefaultStoreTimeout
		}
	}

	cfg.LogLevel = envOr("LOG_LEVEL", "info")
	cfg.LogFormat = envOr("LOG_FORMAT", "text")

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Timeout returns the per-call store timeout, falling back to the default
// for configs built by hand.
func (c Config) Timeout() time.Duration {
	if c.StoreTimeout <= 0 {
		return DefaultStoreTimeout
	}
	return c.StoreTimeout
}
