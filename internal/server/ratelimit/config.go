package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultRequestsPerSecond = 10.0
	DefaultBurst             = 20
	DefaultCleanupInterval   = 5 * time.Minute
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration
	Whitelist         map[string]bool
}

// NewConfig builds a Config from file values, filling zero values with defaults.
func NewConfig(enabled bool, requestsPerSecond float64, burst int, whitelist []string) *Config {
	cfg := &Config{
		Enabled:           enabled,
		RequestsPerSecond: requestsPerSecond,
		Burst:             burst,
		CleanupInterval:   DefaultCleanupInterval,
		Whitelist:         make(map[string]bool, len(whitelist)),
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	for _, ip := range whitelist {
		if ip = strings.TrimSpace(ip); ip != "" {
			cfg.Whitelist[ip] = true
		}
	}
	return cfg
}

// ApplyEnv overrides configuration with RATE_LIMIT_* environment variables.
func (c *Config) ApplyEnv() *Config {
	c.Enabled = getEnvBool("RATE_LIMIT_ENABLED", c.Enabled)
	c.RequestsPerSecond = getEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", c.RequestsPerSecond)
	c.Burst = getEnvInt("RATE_LIMIT_BURST", c.Burst)
	c.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", c.CleanupInterval)

	if c.Whitelist == nil {
		c.Whitelist = make(map[string]bool)
	}
	for ip := range parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")) {
		c.Whitelist[ip] = true
	}
	return c
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
