package config

import "time"

// Application-wide constants organized by domain

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	SearchTimeout       = 10 * time.Second
	NetworkDialTimeout  = 5 * time.Second

	// Cache settings
	ResolverCacheSize = 10000

	// Durable-write queue
	DefaultSyncQueueSize = 1024
	DefaultSyncRetries   = 3
	SyncRetryBackoff     = 2 * time.Second
	SyncDrainInterval    = 500 * time.Millisecond
)

// Trade filter toggle names. An instance's trade_filters map uses these keys;
// an absent key counts as enabled.
const (
	FilterLegendary = "legendary"
	FilterMythical  = "mythical"
	FilterShiny     = "shiny"
	FilterShadow    = "shadow"
	FilterCostume   = "costume"
	FilterRegional  = "regional"
)
