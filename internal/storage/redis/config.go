package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// RoomRecordTTL bounds how long an ID stays reserved if a process dies
	// without deleting its rooms
	RoomRecordTTL time.Duration
	// ResultsTTL applies to a room's result list, refreshed on every write
	ResultsTTL time.Duration
	// MaxResultsPerRoom trims the result list
	MaxResultsPerRoom int64
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:               "redis://localhost:6379",
		PoolSize:          10,
		MinIdleConns:      2,
		RoomRecordTTL:     24 * time.Hour,
		ResultsTTL:        7 * 24 * time.Hour,
		MaxResultsPerRoom: 50,
	}
}
