package config

import (
	"fmt"

	urlutil "github.com/law-makers/collegecrawl/internal/utils/url"
)

func validate(c *Config) error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.FetchTimeout <= 0 || c.ContactTimeout <= 0 || c.SearchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0")
	}
	if c.CandidateDelay < 0 {
		return fmt.Errorf("candidate delay must be >= 0")
	}
	if c.MaxResults <= 0 || c.MaxResults > DefaultMaxResultsLimit {
		return fmt.Errorf("max results must be between 1 and %d", DefaultMaxResultsLimit)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must be >= 0")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("burst must be > 0")
	}
	if c.RetryAttempts <= 0 || c.RetryAttempts > DefaultMaxRetryAttempts {
		return fmt.Errorf("retry attempts must be between 1 and %d", DefaultMaxRetryAttempts)
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	if c.Proxy != "" {
		if err := urlutil.ValidateProxyURL(c.Proxy); err != nil {
			return err
		}
	}
	if err := urlutil.ValidateURL(c.PrimaryEndpoint); err != nil {
		return fmt.Errorf("primary endpoint: %w", err)
	}
	if err := urlutil.ValidateURL(c.FallbackEndpoint); err != nil {
		return fmt.Errorf("fallback endpoint: %w", err)
	}
	return nil
}
