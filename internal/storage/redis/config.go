package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings for different entity types. Sessions additionally carry
	// their own 24h activity expiry in the service layer; the key TTL is a
	// backstop so abandoned entries cannot accumulate forever.
	SessionTTL   time.Duration
	RoomTTL      time.Duration
	GameStateTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		SessionTTL:   48 * time.Hour,
		RoomTTL:      24 * time.Hour,
		GameStateTTL: 24 * time.Hour,
	}
}
