// internal/engine/metadata/utils.go
package metadata

import "strings"

// IsAbsoluteURL checks if a URL is absolute
func IsAbsoluteURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// ExtractDomain extracts the host from a URL
func ExtractDomain(url string) string {
	if strings.HasPrefix(url, "http://") {
		url = url[7:]
	} else if strings.HasPrefix(url, "https://") {
		url = url[8:]
	}

	if idx := strings.IndexAny(url, "/?#"); idx > 0 {
		url = url[:idx]
	}

	return strings.ToLower(url)
}
