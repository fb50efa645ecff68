package models

import (
	"strings"
	"time"
)

// College types assigned by the analyzer.
const (
	TypeGovernment = "Government"
	TypePrivate    = "Private"
	TypeUnknown    = "Unknown"
)

// Request wildcards meaning "do not narrow the query".
const (
	AllTypes    = "All Types"
	AllBranches = "All Branches"
)

// CollegeRecord is the structured profile extracted from one college website.
type CollegeRecord struct {
	Name          string   `json:"name"`
	University    string   `json:"university,omitempty"`
	Email         string   `json:"email,omitempty"`
	Location      string   `json:"location,omitempty"`
	Branches      []string `json:"branches,omitempty"`
	HODContact    string   `json:"hod_contact,omitempty"`
	AdminContact  string   `json:"admin_contact,omitempty"`
	OtherContacts []string `json:"other_contacts,omitempty"`
	Website       string   `json:"website"`
	CollegeType   string   `json:"college_type"`
}

// Valid reports whether the record has a name and at least one way to reach the college.
func (r *CollegeRecord) Valid() bool {
	if r == nil || r.Name == "" {
		return false
	}
	return r.Email != "" || r.Website != "" || r.AdminContact != ""
}

// Key is the identity of a record: lower-cased name and location.
func (r *CollegeRecord) Key() string {
	return strings.ToLower(r.Name) + "\x00" + strings.ToLower(r.Location)
}

// Equal reports whether two records describe the same institution.
func (r *CollegeRecord) Equal(other *CollegeRecord) bool {
	if r == nil || other == nil {
		return r == other
	}
	return strings.EqualFold(r.Name, other.Name) && strings.EqualFold(r.Location, other.Location)
}

// Column names of the flattened export shape, in order.
var ExportColumns = []string{
	"College Name",
	"University",
	"Type",
	"Location",
	"Branches",
	"Email",
	"HOD Contact",
	"Admin Contact",
	"Other Contacts",
	"Website",
}

// Row flattens the record into the ten export columns.
func (r *CollegeRecord) Row() []string {
	return []string{
		r.Name,
		r.University,
		r.CollegeType,
		r.Location,
		strings.Join(r.Branches, ", "),
		r.Email,
		r.HODContact,
		r.AdminContact,
		strings.Join(r.OtherContacts, ", "),
		r.Website,
	}
}

// Flatten returns the record as a column-name keyed map.
func (r *CollegeRecord) Flatten() map[string]string {
	row := r.Row()
	m := make(map[string]string, len(row))
	for i, col := range ExportColumns {
		m[col] = row[i]
	}
	return m
}

// SearchCandidate is a (label, url) pair proposed by a search provider.
type SearchCandidate struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SearchRequest triggers one run.
type SearchRequest struct {
	State       string `json:"state" validate:"required"`
	Branch      string `json:"branch" validate:"required"`
	CollegeType string `json:"college_type"`
	MaxResults  int    `json:"max_results" validate:"gte=0,lte=100"`
}

// Link is an anchor found on a page.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// Page is a fetched and parsed web page.
type Page struct {
	URL          string    `json:"url"`
	StatusCode   int       `json:"status_code"`
	Title        string    `json:"title,omitempty"`
	Heading      string    `json:"heading,omitempty"`
	Address      string    `json:"address,omitempty"`
	Text         string    `json:"text,omitempty"`
	HTML         string    `json:"-"`
	Links        []Link    `json:"links,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	ResponseTime int64     `json:"response_time_ms"`
}

// RequestOptions controls a single fetch.
type RequestOptions struct {
	URL     string
	Timeout time.Duration
	Headers map[string]string
}

// ProgressEvent is a short status line for the consumer.
type ProgressEvent struct {
	Message string `json:"message"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
	Label   string `json:"label,omitempty"`
}

// ResultEvent is a free-form human-readable result line.
type ResultEvent struct {
	Text string `json:"text"`
}

// DoneEvent is emitted exactly once at the end of a run.
type DoneEvent struct {
	Success    bool  `json:"success"`
	TotalFound int   `json:"total_found"`
	Err        error `json:"-"`
}
