package config

import "time"

// CacheConfig controls the Redis response cache used on read-heavy
// endpoints such as the monitor view.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCache reads cache settings from the environment with sensible
// defaults.  A short TTL keeps the monitor view close to live while
// shielding the database from display-board polling.
func LoadCache() CacheConfig {
	return CacheConfig{
		Enabled:      getenvBool("CACHE_ENABLED", true),
		TTL:          getenvDur("CACHE_TTL", 3*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "bq:cache"),
		MaxBodyBytes: getenvInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
