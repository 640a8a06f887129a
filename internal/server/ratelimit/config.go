package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// Rule is the rate limit for one endpoint. Paths ending in "/" match by
// prefix. A Limit of zero means unlimited.
type Rule struct {
	Path   string
	Method string
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int           // burst capacity, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Rules           []Rule
}

func defaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Rules:           DefaultRules(),
	}
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	cfg := defaultConfig()
	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	return cfg
}

// DefaultRules returns the endpoint-specific limits. Matching fans out to
// the scorer and possibly external boards, so it is tighter than plain
// reads.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/match", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/match", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/postings", Method: "GET", Limit: 300, Window: time.Minute, Burst: 50},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
