package engine

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/collegecrawl/pkg/models"
)

// Fetcher is the interface that page fetchers must implement
type Fetcher interface {
	// Fetch retrieves and parses the page at opts.URL
	Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error)

	// FetchDocument is Fetch that also returns the parsed document
	FetchDocument(ctx context.Context, opts models.RequestOptions) (*models.Page, *goquery.Document, error)

	// Name returns the name of the fetcher implementation
	Name() string
}
