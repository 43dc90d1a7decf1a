package config

import "time"

// RateLimitConfig controls the fixed-window Redis rate limiter applied to
// the service-client API surface.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Prefix  string
}

// LoadRateLimit reads rate-limit settings from the environment with
// sensible defaults.
func LoadRateLimit() RateLimitConfig {
	return RateLimitConfig{
		Enabled: getenvBool("RATE_LIMIT_ENABLED", true),
		Limit:   getenvInt("RATE_LIMIT_MAX", 120),
		Window:  getenvDur("RATE_LIMIT_WINDOW", time.Minute),
		Prefix:  getenv("RATE_LIMIT_PREFIX", "bq:rl"),
	}
}
