package constants

import "time"

// Server defaults
const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 7070
	DefaultTimeout    = 30 * time.Second
)

// Database settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Storage drivers
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Poll window limits: minutes since midnight
const (
	MinutesPerDay = 1440
)

// Aggregation contract values
const (
	// DefaultBestSlotsLimit caps the ranked best-times list.
	DefaultBestSlotsLimit = 5
	// HeatLevels is the number of non-zero heatmap intensity buckets.
	HeatLevels = 4
)

// Wire formats for create-event input
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// OAuth state tokens are one-time use and short lived
const (
	OAuthStateTTL = 10 * time.Minute
)

// Context keys
const (
	ContextIdentityName = "identity_name"
)
