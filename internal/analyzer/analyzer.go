// Package analyzer turns a fetched college website into a CollegeRecord.
package analyzer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/law-makers/collegecrawl/internal/engine"
	"github.com/law-makers/collegecrawl/internal/engine/metadata"
	"github.com/law-makers/collegecrawl/internal/extract"
	urlutil "github.com/law-makers/collegecrawl/internal/utils/url"
	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/rs/zerolog"
)

// UnknownCollege is the name used when neither the page nor the search result names the college.
const UnknownCollege = "Unknown College"

const (
	minNameLength    = 5
	maxOtherContacts = 4
)

var (
	governmentKeywords = []string{"government", "govt", "state government", "central government", "public college"}
	privateKeywords    = []string{"private", "autonomous", "self-financed"}

	affiliationPattern = regexp.MustCompile(`(?i)affiliated (?:to|with) ([^.,]+university[^.,]*)`)
)

// Config holds the per-request timeouts used by the analyzer.
type Config struct {
	PageTimeout    time.Duration
	ContactTimeout time.Duration
}

// Analyzer fetches a college website and derives a record from it.
type Analyzer struct {
	fetcher engine.Fetcher
	cfg     Config
	logger  zerolog.Logger
}

// New creates an Analyzer.
func New(fetcher engine.Fetcher, cfg Config, logger zerolog.Logger) *Analyzer {
	return &Analyzer{fetcher: fetcher, cfg: cfg, logger: logger}
}

// Analyze fetches url and builds a record. fallbackName is the search-result label and
// state is the requested state, used as a last-resort location. A fetch failure is
// returned as an error; the contact-page backfill never fails the call.
func (a *Analyzer) Analyze(ctx context.Context, url, fallbackName, state string) (*models.CollegeRecord, error) {
	a.logger.Info().Str("url", url).Msg("Scraping")

	page, err := a.fetcher.Fetch(ctx, models.RequestOptions{URL: url, Timeout: a.cfg.PageTimeout})
	if err != nil {
		return nil, err
	}

	record := Build(page, fallbackName, state)
	a.backfillFromContactPage(ctx, page, record)

	a.logger.Info().
		Str("url", url).
		Str("name", record.Name).
		Str("host", metadata.ExtractDomain(url)).
		Msg("Successfully scraped")
	return record, nil
}

// Build derives a record from an already fetched page.
func Build(page *models.Page, fallbackName, state string) *models.CollegeRecord {
	record := &models.CollegeRecord{
		Website:  page.URL,
		Name:     collegeName(page, fallbackName),
		Branches: extract.Branches(page.Text),
	}

	if emails := extract.Emails(page.Text); len(emails) > 0 {
		record.Email = emails[0]
	}

	if phones := extract.PhoneNumbers(page.Text); len(phones) > 0 {
		record.AdminContact = phones[0]
		if rest := phones[1:]; len(rest) > 0 {
			if len(rest) > maxOtherContacts {
				rest = rest[:maxOtherContacts]
			}
			record.OtherContacts = append([]string(nil), rest...)
		}
	}

	record.Location = location(page, state)
	record.CollegeType = CollegeType(page.Text)
	record.University = University(page.Text)
	return record
}

func collegeName(page *models.Page, fallbackName string) string {
	if page.Title != "" {
		title := page.Title
		if i := strings.Index(title, "|"); i >= 0 {
			title = title[:i]
		}
		if i := strings.Index(title, "-"); i >= 0 {
			title = title[:i]
		}
		if name := extract.CleanCollegeName(title); len(name) > minNameLength {
			return name
		}
	}

	if name := extract.CleanCollegeName(page.Heading); len(name) > minNameLength {
		return name
	}

	if fallbackName != "" {
		return extract.CleanCollegeName(fallbackName)
	}
	return UnknownCollege
}

func location(page *models.Page, state string) string {
	if page.Address != "" {
		return page.Address
	}
	if loc := extract.Location(page.Text, state); loc != "" {
		return loc
	}
	return state
}

// CollegeType classifies the institution from its page text. Government keywords win
// when both sets match.
func CollegeType(text string) string {
	lower := strings.ToLower(text)
	if containsAny(lower, governmentKeywords) {
		return models.TypeGovernment
	}
	if containsAny(lower, privateKeywords) {
		return models.TypePrivate
	}
	return models.TypeUnknown
}

// University returns the affiliating university, "Autonomous" for autonomous colleges, or "".
func University(text string) string {
	if m := affiliationPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.Contains(strings.ToLower(text), "autonomous") {
		return "Autonomous"
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// ContactLink returns the absolute URL of the first contact-looking link whose href is
// absolute or root-relative. Other relative hrefs are skipped.
func ContactLink(page *models.Page) (string, bool) {
	for _, link := range page.Links {
		if !isContactLink(link) {
			continue
		}
		switch href := link.Href; {
		case strings.HasPrefix(href, "http"):
			return href, true
		case strings.HasPrefix(href, "/"):
			return urlutil.ResolveURL(page.URL, href), true
		}
	}
	return "", false
}

func isContactLink(l models.Link) bool {
	return strings.Contains(strings.ToLower(l.Text), "contact") ||
		strings.Contains(strings.ToLower(l.Href), "contact-us")
}

func (a *Analyzer) backfillFromContactPage(ctx context.Context, page *models.Page, record *models.CollegeRecord) {
	contactURL, ok := ContactLink(page)
	if !ok {
		return
	}

	a.logger.Debug().Str("url", contactURL).Msg("Found contact page")

	contact, err := a.fetcher.Fetch(ctx, models.RequestOptions{URL: contactURL, Timeout: a.cfg.ContactTimeout})
	if err != nil {
		a.logger.Debug().Err(err).Str("url", contactURL).Msg("Could not scrape contact page")
		return
	}

	if record.Email == "" {
		if emails := extract.Emails(contact.Text); len(emails) > 0 {
			record.Email = emails[0]
		}
	}
	if record.AdminContact == "" {
		if phones := extract.PhoneNumbers(contact.Text); len(phones) > 0 {
			record.AdminContact = phones[0]
		}
	}
}
