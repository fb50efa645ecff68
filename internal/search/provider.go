package search

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/collegecrawl/internal/engine"
	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/rs/zerolog"
)

const (
	DefaultGoogleEndpoint     = "https://www.google.com/search"
	DefaultDuckDuckGoEndpoint = "https://html.duckduckgo.com/html/"
	DefaultTimeout            = 10 * time.Second

	unknownLabel = "Unknown"
)

// Provider proposes candidate college websites for a query.
type Provider interface {
	// Search returns accepted candidates in result order, at most q.Limit of them.
	Search(ctx context.Context, q Query) ([]models.SearchCandidate, error)

	// Name identifies the provider in logs and progress messages.
	Name() string
}

// ProviderOptions configures an HTML search provider.
type ProviderOptions struct {
	Fetcher  engine.Fetcher
	Endpoint string
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// parseFunc walks a result page and offers every result to the collector.
type parseFunc func(doc *goquery.Document, c *collector)

// htmlProvider issues one GET against a search endpoint and scrapes its result markup.
type htmlProvider struct {
	name   string
	opts   ProviderOptions
	params func(query string, limit int) url.Values
	parse  parseFunc
	logger zerolog.Logger
}

func (p *htmlProvider) Name() string {
	return p.name
}

func (p *htmlProvider) Search(ctx context.Context, q Query) ([]models.SearchCandidate, error) {
	query := BuildQuery(q)
	searchURL := p.opts.Endpoint + "?" + p.params(query, q.Limit).Encode()

	p.logger.Info().Str("query", query).Msg("Searching")

	_, doc, err := p.opts.Fetcher.FetchDocument(ctx, models.RequestOptions{
		URL:     searchURL,
		Timeout: p.opts.Timeout,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("url", searchURL).Msg("Search request failed")
		return nil, err
	}

	c := newCollector(q.Limit)
	p.parse(doc, c)

	p.logger.Info().Int("count", len(c.candidates)).Msg("Found potential college websites")
	for _, cand := range c.candidates {
		p.logger.Debug().Str("label", cand.Label).Str("url", cand.URL).Msg("Found")
	}
	return c.candidates, nil
}

func newHTMLProvider(name, defaultEndpoint string, opts ProviderOptions, params func(string, int) url.Values, parse parseFunc) *htmlProvider {
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &htmlProvider{
		name:   name,
		opts:   opts,
		params: params,
		parse:  parse,
		logger: opts.Logger.With().Str("provider", name).Logger(),
	}
}

// NewGoogle returns the primary provider. It requests Limit results with the num
// parameter and reads div.g result blocks.
func NewGoogle(opts ProviderOptions) Provider {
	return newHTMLProvider("Google", DefaultGoogleEndpoint, opts,
		func(query string, limit int) url.Values {
			v := url.Values{"q": {query}}
			if limit > 0 {
				v.Set("num", strconv.Itoa(limit))
			}
			return v
		},
		func(doc *goquery.Document, c *collector) {
			doc.Find("div.g").EachWithBreak(func(_ int, block *goquery.Selection) bool {
				href, ok := block.Find("a[href]").First().Attr("href")
				if !ok {
					return true
				}
				label := unknownLabel
				if h3 := block.Find("h3").First(); h3.Length() > 0 {
					label = h3.Text()
				}
				c.add(label, href)
				return !c.full()
			})
		})
}

// NewDuckDuckGo returns the fallback provider backed by the HTML-only DuckDuckGo endpoint.
func NewDuckDuckGo(opts ProviderOptions) Provider {
	return newHTMLProvider("DuckDuckGo", DefaultDuckDuckGoEndpoint, opts,
		func(query string, _ int) url.Values {
			return url.Values{"q": {query}}
		},
		func(doc *goquery.Document, c *collector) {
			doc.Find("a.result__a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
				href, ok := link.Attr("href")
				if !ok {
					return true
				}
				c.add(strings.TrimSpace(link.Text()), href)
				return !c.full()
			})
		})
}
