// ABOUTME: Centralized configuration defaults for newsense
// ABOUTME: Service endpoints, timeouts, display widths and settings defaults

package config

import "time"

// Service settings
const (
	DefaultItemsURL    = "http://localhost:3002"
	DefaultFeedsURL    = "http://localhost:3001"
	DefaultHTTPTimeout = 15 * time.Second
	DefaultPageSize    = 20
	DefaultSyncEvery   = time.Minute
)

// Display settings
const (
	DisplayIDLength = 8
	SnippetLength   = 200
	DateFormatShort = "02 Jan 06 15:04"
	DateFormatLong  = "2 January 2006 15:04"
)

// Settings defaults
const (
	DefaultFilterPrediction          = false
	DefaultFilterPredictionThreshold = 0.0
	DefaultUseClusters               = false
)

// Storage settings
const (
	DefaultDirPerms  = 0755
	DefaultFilePerms = 0600
)
