package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is unset or blank.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Supported STORE_DRIVER values.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	AppEnv          string
	LogLevel        string
	JWTSecret       string
	TokenTTL        time.Duration
	BcryptCost      int
	AllowedOrigins  []string
	StoreDriver     string
	DatabasePath    string
	RoomIdleTimeout time.Duration
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from environment variables or sets defaults.
// A missing signing secret is a startup error; there is no built-in fallback.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "5000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL: invalid duration %q", getEnv("TOKEN_TTL", "24h"))
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "12"))
	if err != nil {
		return nil, fmt.Errorf("BCRYPT_COST: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST: %d out of range [%d..%d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", StoreMemory))
	if driver != StoreMemory && driver != StoreSQLite {
		return nil, fmt.Errorf("STORE_DRIVER: unsupported driver %q", driver)
	}

	idle, err := time.ParseDuration(getEnv("ROOM_IDLE_TIMEOUT", "30m"))
	if err != nil {
		return nil, fmt.Errorf("ROOM_IDLE_TIMEOUT: %w", err)
	}

	return &Config{
		ServerPort:      port,
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		JWTSecret:       secret,
		TokenTTL:        ttl,
		BcryptCost:      cost,
		AllowedOrigins:  splitList(getEnv("FRONTEND_URL", "http://localhost:3000")),
		StoreDriver:     driver,
		DatabasePath:    getEnv("DATABASE_PATH", "./pokermaster.db"),
		RoomIdleTimeout: idle,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
