// Package extract holds the pure text heuristics that turn page text into record fields.
package extract

import (
	"regexp"
	"strings"
	"sync"
)

var (
	emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)

	// Optional country prefix, then 5+5, 4+6, 3+7 or a plain run of 10 digits.
	phonePattern = regexp.MustCompile(`(?:\+91|91)?[-.\s]?(?:\d{5}[-.\s]?\d{5}|\d{4}[-.\s]?\d{6}|\d{3}[-.\s]?\d{7}|\d{10})`)

	phoneSeparators   = regexp.MustCompile(`[-.\s]`)
	phoneCountryCode  = regexp.MustCompile(`^(?:\+91|91)`)
	trailingDash      = regexp.MustCompile(`\s*-\s*$`)
	locationKeyPhrase = regexp.MustCompile(`(?i)(?:located in|address:|location:)\s*([^.]+)`)
)

// Compiled place-with-state patterns, keyed by state name.
var statePatterns sync.Map

var placeholderDomains = []string{"example.com", "test.com", "domain.com"}

type branchKeyword struct {
	keyword string
	branch  string
}

// Scanned in order; a branch is reported at the position of its first matching keyword.
var branchKeywords = []branchKeyword{
	{"computer science", "Computer Science Engineering"},
	{"cse", "Computer Science Engineering"},
	{"information technology", "Information Technology"},
	{"it", "Information Technology"},
	{"electronics and communication", "Electronics and Communication Engineering"},
	{"ece", "Electronics and Communication Engineering"},
	{"electrical", "Electrical Engineering"},
	{"eee", "Electrical Engineering"},
	{"mechanical", "Mechanical Engineering"},
	{"civil", "Civil Engineering"},
	{"chemical", "Chemical Engineering"},
	{"biotechnology", "Biotechnology"},
	{"automobile", "Automobile Engineering"},
	{"aerospace", "Aerospace Engineering"},
	{"instrumentation", "Instrumentation Engineering"},
	{"production", "Production Engineering"},
	{"industrial", "Industrial Engineering"},
	{"mining", "Mining Engineering"},
	{"petroleum", "Petroleum Engineering"},
	{"textile", "Textile Engineering"},
	{"metallurgical", "Metallurgical Engineering"},
	{"marine", "Marine Engineering"},
}

// Emails returns the distinct email addresses in text, in order of first appearance.
// Placeholder addresses (example.com, test.com, domain.com) are dropped.
func Emails(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, email := range emailPattern.FindAllString(text, -1) {
		if isPlaceholderEmail(email) {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

func isPlaceholderEmail(email string) bool {
	lower := strings.ToLower(email)
	for _, d := range placeholderDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// PhoneNumbers returns distinct 10-digit Indian phone numbers found in text, in order of
// first appearance, with separators and any +91/91 prefix removed.
func PhoneNumbers(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, raw := range phonePattern.FindAllString(text, -1) {
		clean := phoneSeparators.ReplaceAllString(raw, "")
		clean = phoneCountryCode.ReplaceAllString(clean, "")
		if len(clean) != 10 || !allDigits(clean) {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// Branches returns the canonical engineering branches mentioned in text.
// Keywords are plain substring matches on the lower-cased text.
func Branches(text string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	var out []string
	seen := make(map[string]struct{})
	for _, kw := range branchKeywords {
		if _, ok := seen[kw.branch]; ok {
			continue
		}
		if strings.Contains(lower, kw.keyword) {
			seen[kw.branch] = struct{}{}
			out = append(out, kw.branch)
		}
	}
	return out
}

// CleanCollegeName collapses whitespace and strips trailing " - " fragments.
func CleanCollegeName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	for {
		stripped := strings.TrimSpace(trailingDash.ReplaceAllString(name, ""))
		if stripped == name {
			return name
		}
		name = stripped
	}
}

// Location looks for an address phrase ("located in", "address:", "location:") and then for a
// capitalized place name followed by ", <state>". It returns "" when neither matches.
func Location(text, state string) string {
	if text == "" {
		return ""
	}

	if m := locationKeyPhrase.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	if state == "" {
		return ""
	}
	if m := placePattern(state).FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// placePattern matches a capitalized place name followed by ", <state>". Only the state
// is matched case-insensitively.
func placePattern(state string) *regexp.Regexp {
	if re, ok := statePatterns.Load(state); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*,\s*(?i:` + regexp.QuoteMeta(state) + `))`)
	actual, _ := statePatterns.LoadOrStore(state, re)
	return actual.(*regexp.Regexp)
}
