package ratelimit

import (
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Defaults for admin login throttling: one attempt every five seconds with a burst of five.
const (
	DefaultLoginRate  = 0.2
	DefaultLoginBurst = 5
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string     // Endpoint path pattern (supports prefix matching)
	Method string     // HTTP method (GET, POST, etc.)
	Rate   rate.Limit // Sustained requests per second
	Burst  int        // Burst capacity
}

// Unlimited reports whether requests to the endpoint are never throttled.
func (c *EndpointConfig) Unlimited() bool {
	return c.Rate == rate.Inf || c.Burst <= 0
}

// defaultBucket names the shared bucket of requests that match no endpoint config.
const defaultBucket = "default"

// bucketKey returns the bucket key for a client. Prefix patterns share one
// bucket so that /api/admin/resumes/{id} paths do not each get their own, and
// unmatched requests share a single per-client bucket whatever their path or method.
func (c *EndpointConfig) bucketKey(clientID, method string) string {
	if c.Path == "" {
		return clientID + ":" + defaultBucket
	}
	return clientID + ":" + c.Path + ":" + method
}

// DefaultConfig returns the server's rate limiting configuration: strict limits
// on admin login, moderate limits on submissions and PDF rendering, and a
// lenient default for everything else.
func DefaultConfig(loginRate float64, loginBurst int) *Config {
	return &Config{
		Enabled:         true,
		DefaultRate:     rate.Limit(1000.0 / 60.0),
		DefaultBurst:    100,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(loginRate, loginBurst),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations.
func DefaultEndpointConfigs(loginRate float64, loginBurst int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: credential checks (strictest limits)
		{Path: "/api/admin/login", Method: "POST", Rate: rate.Limit(loginRate), Burst: loginBurst},

		// Tier 2: writes and PDF rendering
		{Path: "/api/resumes", Method: "POST", Rate: rate.Limit(100.0 / 60.0), Burst: 10},
		{Path: "/api/resumes/", Method: "GET", Rate: rate.Limit(30.0 / 60.0), Burst: 5},
		{Path: "/api/admin/resumes/", Method: "DELETE", Rate: rate.Limit(100.0 / 60.0), Burst: 10},

		// Tier 3: reads use the default limit
		// Tier 4: health check is unlimited, handled in the matcher
	}
}

// ParseIPList parses a comma-separated list of IP addresses into a set.
func ParseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
