// ABOUTME: Configuration loader for the power calculator service
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port     string
	CacheTTL int // seconds, for computed result tables

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitDefault int  // Requests per minute per client (default: 100)

	// Calculation
	MaxGridRows          int  // cap on expanded grid combinations (default: 100000)
	GridWorkers          int  // grid evaluation parallelism, 0 = one per CPU
	AllowDegenerateTheta bool // include theta==1 combinations as flagged rows
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		CacheTTL: getEnvInt("CACHE_TTL", 300),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),

		MaxGridRows:          getEnvInt("MAX_GRID_ROWS", 100000),
		GridWorkers:          getEnvInt("GRID_WORKERS", 0),
		AllowDegenerateTheta: getEnvBool("ALLOW_DEGENERATE_THETA", false),
	}

	if cfg.RateLimitDefault < 1 || cfg.RateLimitDefault > 10000 {
		return nil, fmt.Errorf("RATE_LIMIT_DEFAULT must be between 1 and 10000, got %d", cfg.RateLimitDefault)
	}
	if cfg.CacheTTL < 1 {
		return nil, fmt.Errorf("CACHE_TTL must be at least 1, got %d", cfg.CacheTTL)
	}
	if cfg.MaxGridRows < 1 {
		return nil, fmt.Errorf("MAX_GRID_ROWS must be at least 1, got %d", cfg.MaxGridRows)
	}
	if cfg.GridWorkers < 0 {
		return nil, fmt.Errorf("GRID_WORKERS must not be negative, got %d", cfg.GridWorkers)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
