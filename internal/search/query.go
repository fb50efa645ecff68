// Package search finds candidate college websites through web search engines.
package search

import (
	"strings"

	urlutil "github.com/law-makers/collegecrawl/internal/utils/url"
	"github.com/law-makers/collegecrawl/pkg/models"
)

// Query is one search for colleges.
type Query struct {
	State       string
	Branch      string
	CollegeType string
	Limit       int
}

var (
	blockedDomains = []string{
		"google.com", "facebook.com", "twitter.com", "linkedin.com",
		"youtube.com", "instagram.com", "wikipedia.org", "shiksha.com",
		"careers360.com", "collegedunia.com",
	}

	collegeKeywords = []string{"college", "university", "institute", "education", ".edu", ".ac.in"}
)

// BuildQuery joins the non-wildcard parts of q into the search string sent to every provider.
func BuildQuery(q Query) string {
	parts := make([]string, 0, 5)
	if q.CollegeType != "" && q.CollegeType != models.AllTypes {
		parts = append(parts, strings.ToLower(q.CollegeType))
	}
	parts = append(parts, "engineering college")
	if q.Branch != "" && q.Branch != models.AllBranches {
		parts = append(parts, q.Branch)
	}
	parts = append(parts, q.State, "contact")
	return strings.Join(parts, " ")
}

// AcceptURL reports whether a search result looks like an institutional site worth fetching.
func AcceptURL(rawURL, label string) bool {
	if rawURL == "" || strings.HasPrefix(rawURL, "#") {
		return false
	}

	lower := strings.ToLower(rawURL)
	for _, domain := range blockedDomains {
		if strings.Contains(lower, domain) {
			return false
		}
	}

	combined := lower + " " + strings.ToLower(label)
	for _, kw := range collegeKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

// collector applies the acceptance policy, dedupes by URL and stops at the limit.
type collector struct {
	limit      int
	seen       map[string]struct{}
	candidates []models.SearchCandidate
}

func newCollector(limit int) *collector {
	return &collector{limit: limit, seen: make(map[string]struct{})}
}

// add offers a raw result. Redirect wrappers are removed first; hrefs that are not
// absolute http(s) URLs after unwrapping are dropped.
func (c *collector) add(label, href string) {
	if c.full() {
		return
	}
	target := urlutil.UnwrapRedirect(strings.TrimSpace(href))
	if !AcceptURL(target, label) || urlutil.ValidateURL(target) != nil {
		return
	}
	if _, dup := c.seen[target]; dup {
		return
	}
	c.seen[target] = struct{}{}
	c.candidates = append(c.candidates, models.SearchCandidate{Label: label, URL: target})
}

func (c *collector) full() bool {
	return c.limit > 0 && len(c.candidates) >= c.limit
}
