package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Write logs as JSON to stderr")
	cmd.PersistentFlags().String("log-file", "", "Also write logs to this file")
	cmd.PersistentFlags().String("proxy", "", "Set HTTP/SOCKS5 proxy (e.g., http://localhost:8080)")
	cmd.PersistentFlags().Duration("timeout", DefaultFetchTimeout, "Timeout for each college page")
	cmd.PersistentFlags().Duration("contact-timeout", DefaultContactTimeout, "Timeout for the contact page")
	cmd.PersistentFlags().Duration("search-timeout", DefaultSearchTimeout, "Timeout for each search request")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().Float64("rate-limit", DefaultRateLimitRPS, "Requests per second per host (0 disables)")
	cmd.PersistentFlags().Int("burst", DefaultRateLimitBurst, "Request burst per host")
	cmd.PersistentFlags().Int("retries", DefaultRetryAttempts, "Attempts per request (1 disables retries)")
	cmd.PersistentFlags().String("config", "", "Path to configuration file (optional)")
}

// RegisterSearchFlags registers flags that only apply to a search run
func RegisterSearchFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.Flags().Duration("delay", DefaultCandidateDelay, "Pause after each college site")
	cmd.Flags().Int("max-results", DefaultMaxResults, "Maximum number of search results to process")
	cmd.Flags().Duration("cache-ttl", DefaultCacheTTL, "How long fetched pages are reused within a run")
	cmd.Flags().String("primary-url", DefaultPrimaryEndpoint, "Primary search endpoint")
	cmd.Flags().String("fallback-url", DefaultFallbackEndpoint, "Fallback search endpoint")
}
