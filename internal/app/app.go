// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/law-makers/collegecrawl/internal/analyzer"
	"github.com/law-makers/collegecrawl/internal/cache"
	"github.com/law-makers/collegecrawl/internal/config"
	"github.com/law-makers/collegecrawl/internal/engine/static"
	"github.com/law-makers/collegecrawl/internal/orchestrator"
	"github.com/law-makers/collegecrawl/internal/ratelimit"
	"github.com/law-makers/collegecrawl/internal/retry"
	"github.com/law-makers/collegecrawl/internal/search"
	"github.com/law-makers/collegecrawl/internal/store"
	"github.com/rs/zerolog"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to flush the log file and release connections on shutdown.
type Application struct {
	Config       *config.Config
	Logger       zerolog.Logger
	Cache        *cache.MemoryCache
	RateLimiter  ratelimit.RateLimiter
	HTTPClient   *http.Client
	Fetcher      *static.Fetcher
	Analyzer     *analyzer.Analyzer
	Search       *search.Chain
	Store        *store.RecordStore
	Orchestrator *orchestrator.Orchestrator
	logFile      *os.File
	startTime    time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Builds the logger (console or JSON on stderr, optionally teed to a log file)
//   - Creates the page cache and the per-host rate limiter
//   - Initializes the HTTP client, honoring the configured proxy
//   - Wires fetcher, analyzer, search providers, record store and orchestrator
//
// If any step fails, an error is returned and no resources are left open.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger, logFile, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Str("log_file", cfg.LogFile).
		Msg("Logger initialized")

	memCache := cache.NewMemoryCache(cfg.CacheMaxSizeBytes, logger)
	logger.Debug().
		Int64("max_size_bytes", cfg.CacheMaxSizeBytes).
		Dur("ttl", cfg.CacheTTL).
		Msg("Page cache initialized")

	rateLimiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		memCache.Close()
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts

	fetcher := static.New(static.Options{
		Client:    httpClient,
		Limiter:   rateLimiter,
		Cache:     memCache,
		CacheTTL:  cfg.CacheTTL,
		Retry:     retryCfg,
		Timeout:   cfg.FetchTimeout,
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	})

	pageAnalyzer := analyzer.New(fetcher, analyzer.Config{
		PageTimeout:    cfg.FetchTimeout,
		ContactTimeout: cfg.ContactTimeout,
	}, logger)

	chain := search.NewChain(logger,
		search.NewGoogle(search.ProviderOptions{
			Fetcher:  fetcher,
			Endpoint: cfg.PrimaryEndpoint,
			Timeout:  cfg.SearchTimeout,
			Logger:   logger,
		}),
		search.NewDuckDuckGo(search.ProviderOptions{
			Fetcher:  fetcher,
			Endpoint: cfg.FallbackEndpoint,
			Timeout:  cfg.SearchTimeout,
			Logger:   logger,
		}),
	)

	records := store.New()
	orch := orchestrator.New(chain, pageAnalyzer, records, memCache, orchestrator.Config{
		CandidateDelay:    cfg.CandidateDelay,
		DefaultMaxResults: cfg.MaxResults,
		CollegeTypes:      config.CollegeTypes,
	}, logger)

	app := &Application{
		Config:       cfg,
		Logger:       logger,
		Cache:        memCache,
		RateLimiter:  rateLimiter,
		HTTPClient:   httpClient,
		Fetcher:      fetcher,
		Analyzer:     pageAnalyzer,
		Search:       chain,
		Store:        records,
		Orchestrator: orch,
		logFile:      logFile,
		startTime:    time.Now(),
	}

	logger.Info().Msg("Application initialized successfully")
	return app, nil
}

// newLogger builds the console (or JSON) logger on stderr. Console output hides info
// lines unless debug is requested; the optional log file always gets info and above.
func newLogger(cfg *config.Config, stderr io.Writer) (zerolog.Logger, *os.File, error) {
	consoleLevel := zerolog.ErrorLevel
	switch cfg.LogLevel {
	case "debug":
		consoleLevel = zerolog.DebugLevel
	case "warn":
		consoleLevel = zerolog.WarnLevel
	case "error":
		consoleLevel = zerolog.ErrorLevel
	// Treat "info" as non-verbose so log lines don't interleave with the progress bar
	default:
		consoleLevel = zerolog.ErrorLevel
	}

	var console io.Writer
	if cfg.JSONLog {
		console = stderr
	} else {
		console = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}
	}

	if cfg.LogFile == "" {
		logger := zerolog.New(console).Level(consoleLevel).With().Timestamp().Logger()
		return logger, nil, nil
	}

	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}

	fileLevel := zerolog.InfoLevel
	if consoleLevel < fileLevel {
		fileLevel = consoleLevel
	}

	writer := zerolog.MultiLevelWriter(
		&zerolog.FilteredLevelWriter{Writer: zerolog.LevelWriterAdapter{Writer: console}, Level: consoleLevel},
		&zerolog.FilteredLevelWriter{Writer: zerolog.LevelWriterAdapter{Writer: file}, Level: fileLevel},
	)
	logger := zerolog.New(writer).Level(fileLevel).With().Timestamp().Logger()
	return logger, file, nil
}

func newHTTPClient(cfg *config.Config) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &http.Client{Transport: transport}, nil
}

// Close gracefully shuts down the application and all its resources.
//
// It stops the cache janitor, drops idle connections and closes the log file.
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Info().Dur("uptime", a.Uptime()).Msg("Shutting down application")

	if a.Cache != nil {
		a.Cache.Close()
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	if a.logFile != nil {
		if err := a.logFile.Sync(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error flushing log file")
		}
		err := a.logFile.Close()
		a.logFile = nil
		if err != nil {
			return fmt.Errorf("close log file: %w", err)
		}
	}
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
