package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel          = "info"
	DefaultJSONLog           = false
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultFetchTimeout      = 15 * time.Second
	DefaultContactTimeout    = 10 * time.Second
	DefaultSearchTimeout     = 10 * time.Second
	DefaultCandidateDelay    = 1 * time.Second
	DefaultMaxResults        = 20
	DefaultMaxResultsLimit   = 100
	DefaultRateLimitRPS      = 0.0 // off; the candidate delay paces a run
	DefaultRateLimitBurst    = 2
	DefaultRetryAttempts     = 1
	DefaultMaxRetryAttempts  = 5
	DefaultCacheTTL          = 10 * time.Minute
	DefaultCacheMaxSizeBytes = 32 * 1024 * 1024 // 32MB
	DefaultPrimaryEndpoint   = "https://www.google.com/search"
	DefaultFallbackEndpoint  = "https://html.duckduckgo.com/html/"
	EnvPrefix                = "COLLEGECRAWL"
)
