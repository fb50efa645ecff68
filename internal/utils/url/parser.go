package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL checks that urlStr is an absolute http(s) URL with a host
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ResolveURL resolves a possibly-relative href against a base URL
func ResolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(u).String()
}

// UnwrapRedirect returns the destination of a search-engine redirect link such as
// Google's "/url?q=..." or DuckDuckGo's "//duckduckgo.com/l/?uddg=...". Other hrefs are
// returned unchanged.
func UnwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	switch {
	case u.Path == "/url" && (u.Host == "" || strings.Contains(u.Host, "google.")):
		if q := u.Query().Get("q"); q != "" {
			return q
		}
		if q := u.Query().Get("url"); q != "" {
			return q
		}
	case strings.HasPrefix(u.Path, "/l/") && (u.Host == "" || strings.Contains(u.Host, "duckduckgo.com")):
		if dest := u.Query().Get("uddg"); dest != "" {
			return dest
		}
	}
	return href
}

// ValidateProxyURL checks that proxy is an http, https or socks5 URL with a host
func ValidateProxyURL(proxy string) error {
	parsed, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https", "socks5":
	default:
		return fmt.Errorf("invalid proxy scheme: must be http, https or socks5, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid proxy URL: missing host")
	}
	return nil
}
