package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// EndpointConfig holds the limit for a specific endpoint. Path patterns
// ending in "/" match by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per window; 0 means unlimited
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit
}

// LoadConfig reads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Endpoints:       DefaultEndpointConfigs(),
	}
}

// Config holds the limiter's configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Endpoints       []EndpointConfig
}

// DefaultEndpointConfigs returns per-endpoint limits. On-demand analysis
// burns model quota so it gets the strictest tier; signup is throttled to
// keep the verification mailer from being used as a spam cannon.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/analyze", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		{Path: "/signup", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		{Path: "/watchlist", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/watchlist/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
