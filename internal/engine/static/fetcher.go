// internal/engine/static/fetcher.go
package static

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/collegecrawl/internal/cache"
	"github.com/law-makers/collegecrawl/internal/engine"
	"github.com/law-makers/collegecrawl/internal/engine/metadata"
	"github.com/law-makers/collegecrawl/internal/ratelimit"
	"github.com/law-makers/collegecrawl/internal/retry"
	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// Options configures a Fetcher
type Options struct {
	Client    *http.Client
	Limiter   ratelimit.RateLimiter
	Cache     cache.Cache
	CacheTTL  time.Duration
	Retry     retry.Config
	Timeout   time.Duration
	UserAgent string
	Logger    zerolog.Logger
}

// Fetcher downloads pages over plain HTTP and parses them with goquery.
// No JavaScript is executed.
type Fetcher struct {
	client    *http.Client
	limiter   ratelimit.RateLimiter
	cache     cache.Cache
	cacheTTL  time.Duration
	retry     retry.Config
	timeout   time.Duration
	userAgent string
	logger    zerolog.Logger
}

var _ engine.Fetcher = (*Fetcher)(nil)

// New creates a Fetcher with dependency injection. Limiter and Cache may be nil.
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultConfig()
	}
	return &Fetcher{
		client:    client,
		limiter:   opts.Limiter,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		retry:     opts.Retry,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
	}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "StaticFetcher"
}

// Fetch retrieves and parses a page
func (f *Fetcher) Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	page, _, err := f.FetchDocument(ctx, opts)
	return page, err
}

// FetchDocument retrieves and parses a page, returning both the page and its document
func (f *Fetcher) FetchDocument(ctx context.Context, opts models.RequestOptions) (*models.Page, *goquery.Document, error) {
	if !metadata.IsAbsoluteURL(opts.URL) {
		return nil, nil, engine.NewEngineError(engine.ErrCodeValidation, "URL must start with http:// or https://", nil).
			WithDetail("url", opts.URL)
	}

	key := cache.KeyFromURL(opts.URL)
	if f.cache != nil {
		if cached, ok := f.cache.Get(key); ok {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(cached.HTML))
			if err == nil {
				return cached, doc, nil
			}
		}
	}

	var (
		page *models.Page
		doc  *goquery.Document
	)
	err := retry.WithRetry(ctx, f.logger, f.retry, func(ctx context.Context) error {
		var err error
		page, doc, err = f.fetch(ctx, opts)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if f.cache != nil {
		_ = f.cache.Set(key, page, f.cacheTTL)
	}
	return page, doc, nil
}

func (f *Fetcher) fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, *goquery.Document, error) {
	start := time.Now()

	f.logger.Debug().
		Str("url", opts.URL).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, opts.URL); err != nil {
			return nil, nil, engine.ClassifyTransportError(opts.URL, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, nil, engine.NewEngineError(engine.ErrCodeValidation, "failed to create request", err).
			WithDetail("url", opts.URL)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, engine.ClassifyTransportError(opts.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := engine.ErrCodeHTTPStatus
		if resp.StatusCode == http.StatusNotFound {
			code = engine.ErrCodeNotFound
		}
		return nil, nil, engine.NewEngineError(code, fmt.Sprintf("server returned %d", resp.StatusCode),
			retry.NewHTTPError(resp.StatusCode, resp.Status, "")).
			WithDetail("url", opts.URL).
			WithDetail("status", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil, engine.NewEngineError(engine.ErrCodeParseError, "failed to decode body", err).
			WithDetail("url", opts.URL)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, engine.ClassifyTransportError(opts.URL, err)
		}
		return nil, nil, engine.NewEngineError(engine.ErrCodeParseError, "failed to parse HTML", err).
			WithDetail("url", opts.URL)
	}

	responseTime := time.Since(start).Milliseconds()

	page := &models.Page{
		URL:          opts.URL,
		StatusCode:   resp.StatusCode,
		FetchedAt:    time.Now(),
		ResponseTime: responseTime,
	}
	page.HTML, _ = doc.Html()
	metadata.Extract(doc, page)

	f.logger.Debug().
		Str("url", opts.URL).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", responseTime).
		Int("links", len(page.Links)).
		Int("text_len", len(page.Text)).
		Msg("Fetch completed")

	return page, doc, nil
}
