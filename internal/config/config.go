package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool
	LogFile  string

	// HTTP
	UserAgent      string
	Proxy          string
	FetchTimeout   time.Duration
	ContactTimeout time.Duration
	SearchTimeout  time.Duration

	// Run
	CandidateDelay time.Duration
	MaxResults     int

	// Rate limiting and retries
	RateLimitRPS   float64
	RateLimitBurst int
	RetryAttempts  int

	// Caching
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64

	// Search endpoints
	PrimaryEndpoint  string
	FallbackEndpoint string
}

// Default returns a Config with every field at its default.
func Default() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		UserAgent:         DefaultUserAgent,
		FetchTimeout:      DefaultFetchTimeout,
		ContactTimeout:    DefaultContactTimeout,
		SearchTimeout:     DefaultSearchTimeout,
		CandidateDelay:    DefaultCandidateDelay,
		MaxResults:        DefaultMaxResults,
		RateLimitRPS:      DefaultRateLimitRPS,
		RateLimitBurst:    DefaultRateLimitBurst,
		RetryAttempts:     DefaultRetryAttempts,
		CacheTTL:          DefaultCacheTTL,
		CacheMaxSizeBytes: DefaultCacheMaxSizeBytes,
		PrimaryEndpoint:   DefaultPrimaryEndpoint,
		FallbackEndpoint:  DefaultFallbackEndpoint,
	}
}

// flag name -> config key
var flagKeys = map[string]string{
	"json":            "json",
	"log-file":        "log_file",
	"user-agent":      "user_agent",
	"proxy":           "proxy",
	"timeout":         "fetch_timeout",
	"contact-timeout": "contact_timeout",
	"search-timeout":  "search_timeout",
	"delay":           "candidate_delay",
	"max-results":     "max_results",
	"rate-limit":      "rate_limit_rps",
	"burst":           "rate_limit_burst",
	"retries":         "retry_attempts",
	"cache-ttl":       "cache_ttl",
	"primary-url":     "primary_endpoint",
	"fallback-url":    "fallback_endpoint",
}

// Load builds a Config by combining defaults, an optional config file, environment
// variables (COLLEGECRAWL_*), and CLI flags, in increasing priority.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var flags *pflag.FlagSet
	if cmd != nil {
		flags = cmd.Flags()
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path := configPath(flags); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		LogLevel:          v.GetString("log_level"),
		JSONLog:           v.GetBool("json"),
		LogFile:           v.GetString("log_file"),
		UserAgent:         v.GetString("user_agent"),
		Proxy:             v.GetString("proxy"),
		FetchTimeout:      v.GetDuration("fetch_timeout"),
		ContactTimeout:    v.GetDuration("contact_timeout"),
		SearchTimeout:     v.GetDuration("search_timeout"),
		CandidateDelay:    v.GetDuration("candidate_delay"),
		MaxResults:        v.GetInt("max_results"),
		RateLimitRPS:      v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:    v.GetInt("rate_limit_burst"),
		RetryAttempts:     v.GetInt("retry_attempts"),
		CacheTTL:          v.GetDuration("cache_ttl"),
		CacheMaxSizeBytes: v.GetInt64("cache_max_size_bytes"),
		PrimaryEndpoint:   v.GetString("primary_endpoint"),
		FallbackEndpoint:  v.GetString("fallback_endpoint"),
	}

	if flags != nil {
		if quiet, _ := flags.GetBool("quiet"); quiet {
			cfg.LogLevel = "error"
		}
		if verbose, _ := flags.GetBool("verbose"); verbose {
			cfg.LogLevel = "debug"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("json", d.JSONLog)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("proxy", d.Proxy)
	v.SetDefault("fetch_timeout", d.FetchTimeout)
	v.SetDefault("contact_timeout", d.ContactTimeout)
	v.SetDefault("search_timeout", d.SearchTimeout)
	v.SetDefault("candidate_delay", d.CandidateDelay)
	v.SetDefault("max_results", d.MaxResults)
	v.SetDefault("rate_limit_rps", d.RateLimitRPS)
	v.SetDefault("rate_limit_burst", d.RateLimitBurst)
	v.SetDefault("retry_attempts", d.RetryAttempts)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("cache_max_size_bytes", d.CacheMaxSizeBytes)
	v.SetDefault("primary_endpoint", d.PrimaryEndpoint)
	v.SetDefault("fallback_endpoint", d.FallbackEndpoint)
}

func configPath(flags *pflag.FlagSet) string {
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}
	return ""
}
