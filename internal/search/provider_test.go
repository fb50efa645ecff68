package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/law-makers/collegecrawl/internal/engine/static"
	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const googleResults = `<html><body><div id="search">
<div class="g"><a href="/url?q=https://www.gectcr.ac.in/&amp;sa=U"><h3>Government Engineering College Thrissur</h3></a></div>
<div class="g"><a href="https://www.facebook.com/gectcr"><h3>GEC Thrissur College | Facebook</h3></a></div>
<div class="g"><a href="https://www.news.in/story"><h3>News</h3></a></div>
<div class="g"><span>no link here</span></div>
<div class="g"><a href="https://www.gectcr.ac.in/"><h3>GEC again</h3></a></div>
<div class="g"><a href="https://www.tkm-institute.org/"></a></div>
<div class="g"><a href="/search?q=engineering+college"><h3>More engineering college results</h3></a></div>
<div class="g"><a href="https://www.mec.ac.in/"><h3>Model Engineering College</h3></a></div>
</div></body></html>`

const duckResults = `<html><body>
<div class="result"><h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.cet.ac.in%2F&amp;rut=abc"> College of Engineering Trivandrum </a></h2></div>
<div class="result"><h2><a class="result__a" href="https://collegedunia.com/college/cet">CET on CollegeDunia</a></h2></div>
<div class="result"><h2><a class="result__a" href="https://rit.ac.in/">RIT Kottayam</a></h2></div>
</body></html>`

func newTestProviderOptions(endpoint string) ProviderOptions {
	return ProviderOptions{
		Fetcher: static.New(static.Options{
			Client:    &http.Client{},
			Timeout:   5 * time.Second,
			UserAgent: "TestSearch/1.0",
			Logger:    zerolog.Nop(),
		}),
		Endpoint: endpoint,
		Timeout:  2 * time.Second,
		Logger:   zerolog.Nop(),
	}
}

func TestGoogle_Search(t *testing.T) {
	var gotQuery, gotNum string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotNum = r.URL.Query().Get("num")
		w.Write([]byte(googleResults))
	}))
	defer server.Close()

	p := NewGoogle(newTestProviderOptions(server.URL + "/search"))
	got, err := p.Search(context.Background(), Query{State: "Kerala", Branch: "All Branches", CollegeType: "Government", Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, "government engineering college Kerala contact", gotQuery)
	assert.Equal(t, "10", gotNum)

	want := []models.SearchCandidate{
		{Label: "Government Engineering College Thrissur", URL: "https://www.gectcr.ac.in/"},
		{Label: "Unknown", URL: "https://www.tkm-institute.org/"},
		{Label: "Model Engineering College", URL: "https://www.mec.ac.in/"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestGoogle_SearchCapsAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(googleResults))
	}))
	defer server.Close()

	got, err := NewGoogle(newTestProviderOptions(server.URL)).Search(context.Background(), Query{State: "Kerala", Branch: "All Branches", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGoogle_SearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unusual traffic", http.StatusTooManyRequests)
	}))
	defer server.Close()

	got, err := NewGoogle(newTestProviderOptions(server.URL)).Search(context.Background(), Query{State: "Kerala", Limit: 5})
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestDuckDuckGo_Search(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Empty(t, r.URL.Query().Get("num"))
		w.Write([]byte(duckResults))
	}))
	defer server.Close()

	p := NewDuckDuckGo(newTestProviderOptions(server.URL + "/html/"))
	got, err := p.Search(context.Background(), Query{State: "Kerala", Branch: "Civil Engineering", CollegeType: "All Types", Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, "engineering college Civil Engineering Kerala contact", gotQuery)
	want := []models.SearchCandidate{
		{Label: "College of Engineering Trivandrum", URL: "https://www.cet.ac.in/"},
		{Label: "RIT Kottayam", URL: "https://rit.ac.in/"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

type stubProvider struct {
	name       string
	candidates []models.SearchCandidate
	err        error
	calls      int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, q Query) ([]models.SearchCandidate, error) {
	s.calls++
	return s.candidates, s.err
}

func TestChain_PrimaryWins(t *testing.T) {
	primary := &stubProvider{name: "primary", candidates: []models.SearchCandidate{{Label: "A College", URL: "https://a.ac.in"}}}
	fallback := &stubProvider{name: "fallback", candidates: []models.SearchCandidate{{Label: "B College", URL: "https://b.ac.in"}}}

	got := NewChain(zerolog.Nop(), primary, fallback).Search(context.Background(), Query{}, nil)
	assert.Equal(t, primary.candidates, got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestChain_FallbackOnEmptyOrError(t *testing.T) {
	for _, primary := range []*stubProvider{
		{name: "empty"},
		{name: "broken", err: errors.New("connection refused")},
	} {
		fallback := &stubProvider{name: "fallback", candidates: []models.SearchCandidate{{Label: "B College", URL: "https://b.ac.in"}}}

		var attempted []string
		got := NewChain(zerolog.Nop(), primary, fallback).Search(context.Background(), Query{}, func(p Provider) {
			attempted = append(attempted, p.Name())
		})

		assert.Equal(t, fallback.candidates, got)
		assert.Equal(t, []string{primary.name, "fallback"}, attempted)
	}
}

func TestChain_AllEmpty(t *testing.T) {
	primary := &stubProvider{name: "primary"}
	fallback := &stubProvider{name: "fallback"}

	got := NewChain(zerolog.Nop(), primary, fallback).Search(context.Background(), Query{}, nil)
	assert.Empty(t, got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}
