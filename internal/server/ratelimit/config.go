package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the request budget of one route
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // Requests per window; 0 means unlimited
	Window time.Duration // Refill window
	Burst  int           // Bucket capacity; Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig reads RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route budgets.
// Generation calls the model once per content type, so it gets the strictest budget.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/generate", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/analyze", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/generations", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/health", Method: "GET", Limit: 0},
	}
}

// MatchEndpoint returns the config for path and method. Exact paths win over
// prefixes; nil means the default budget applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

// parseIPList parses a comma-separated list of addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
