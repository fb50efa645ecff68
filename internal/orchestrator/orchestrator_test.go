package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/collegecrawl/internal/analyzer"
	"github.com/law-makers/collegecrawl/internal/engine/static"
	"github.com/law-makers/collegecrawl/internal/search"
	"github.com/law-makers/collegecrawl/internal/store"
	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects notifications.
type recorder struct {
	mu       sync.Mutex
	progress []models.ProgressEvent
	results  []string
	done     []models.DoneEvent
	doneCh   chan struct{}
}

func newRecorder() *recorder {
	return &recorder{doneCh: make(chan struct{}, 1)}
}

func (r *recorder) Progress(e models.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, e)
}

func (r *recorder) Result(e models.ResultEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, e.Text)
}

func (r *recorder) Done(e models.DoneEvent) {
	r.mu.Lock()
	r.done = append(r.done, e)
	r.mu.Unlock()
	r.doneCh <- struct{}{}
}

func (r *recorder) transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.results, "\n")
}

// collegeSites serves one page per path, each with a distinct name and email.
func collegeSites(t *testing.T, slow map[string]time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d, ok := slow[r.URL.Path]; ok {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		id := strings.TrimPrefix(r.URL.Path, "/")
		fmt.Fprintf(w, `<html><head><title>%s Engineering College | Home</title></head>
<body><p>Government college. Mail office@%s.ac.in</p></body></html>`, strings.ToUpper(id), id)
	}))
}

// resultsPage renders Google-style result blocks for the given site paths.
func googlePage(siteURL string, paths ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, p := range paths {
		fmt.Fprintf(&b, `<div class="g"><a href="%s/%s"><h3>%s Engineering College</h3></a></div>`, siteURL, p, strings.ToUpper(p))
	}
	b.WriteString("</body></html>")
	return b.String()
}

func duckPage(siteURL string, paths ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, p := range paths {
		fmt.Fprintf(&b, `<a class="result__a" href="%s/%s">%s Engineering College</a>`, siteURL, p, strings.ToUpper(p))
	}
	b.WriteString("</body></html>")
	return b.String()
}

type countingHandler struct {
	body  string
	hits  atomic.Int32
	order *[]string
	name  string
	mu    *sync.Mutex
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hits.Add(1)
	h.mu.Lock()
	*h.order = append(*h.order, h.name)
	h.mu.Unlock()
	w.Write([]byte(h.body))
}

type stack struct {
	orch     *Orchestrator
	store    *store.RecordStore
	logs     *bytes.Buffer
	primary  *countingHandler
	fallback *countingHandler
	order    []string
}

func newStack(t *testing.T, primaryBody, fallbackBody string, pageTimeout time.Duration) *stack {
	t.Helper()

	s := &stack{store: store.New(), logs: &bytes.Buffer{}}
	mu := &sync.Mutex{}
	s.primary = &countingHandler{body: primaryBody, order: &s.order, name: "primary", mu: mu}
	s.fallback = &countingHandler{body: fallbackBody, order: &s.order, name: "fallback", mu: mu}

	primarySrv := httptest.NewServer(s.primary)
	fallbackSrv := httptest.NewServer(s.fallback)
	t.Cleanup(primarySrv.Close)
	t.Cleanup(fallbackSrv.Close)

	logger := zerolog.New(s.logs)
	fetcher := static.New(static.Options{
		Client:    &http.Client{},
		Timeout:   5 * time.Second,
		UserAgent: "TestOrchestrator/1.0",
		Logger:    logger,
	})

	chain := search.NewChain(logger,
		search.NewGoogle(search.ProviderOptions{Fetcher: fetcher, Endpoint: primarySrv.URL + "/search", Logger: logger}),
		search.NewDuckDuckGo(search.ProviderOptions{Fetcher: fetcher, Endpoint: fallbackSrv.URL + "/html/", Logger: logger}),
	)
	a := analyzer.New(fetcher, analyzer.Config{PageTimeout: pageTimeout, ContactTimeout: pageTimeout}, logger)

	s.orch = New(chain, a, s.store, nil, Config{
		DefaultMaxResults: 20,
		CollegeTypes:      []string{models.AllTypes, "Government", "Private", "Autonomous"},
	}, logger)
	return s
}

func TestRun_PrimaryResultsAllSucceed(t *testing.T) {
	sites := collegeSites(t, nil)
	defer sites.Close()

	s := newStack(t, googlePage(sites.URL, "a", "b", "c"), "", 2*time.Second)
	rec := newRecorder()

	err := s.orch.Run(context.Background(), models.SearchRequest{
		State: "Kerala", Branch: "Computer Science Engineering", CollegeType: "Government", MaxResults: 5,
	}, rec)
	require.NoError(t, err)

	require.Len(t, rec.done, 1)
	assert.True(t, rec.done[0].Success)
	assert.Equal(t, 3, rec.done[0].TotalFound)
	assert.NoError(t, rec.done[0].Err)
	assert.Equal(t, StateDone, s.orch.State())
	assert.False(t, s.orch.Running())

	assert.EqualValues(t, 1, s.primary.hits.Load())
	assert.EqualValues(t, 0, s.fallback.hits.Load())

	records := s.store.List()
	require.Len(t, records, 3)
	assert.Equal(t, "A Engineering College", records[0].Name)
	assert.Equal(t, "office@a.ac.in", records[0].Email)
	assert.Equal(t, "Kerala", records[0].Location)
	assert.Equal(t, models.TypeGovernment, records[0].CollegeType)

	out := rec.transcript()
	assert.Contains(t, out, "Searching for Computer Science Engineering colleges in Kerala")
	assert.Contains(t, out, "✓ Found 3 potential college websites")
	assert.Contains(t, out, "[2/3] Scraping: B Engineering College")
	assert.Contains(t, out, "  ✓ Email: office@c.ac.in")
	assert.Contains(t, out, "  ✓ Contact: Not found")
	assert.Contains(t, out, "Total colleges found: 3")

	var scraping []models.ProgressEvent
	for _, p := range rec.progress {
		if p.Current > 0 {
			scraping = append(scraping, p)
		}
	}
	require.Len(t, scraping, 3)
	assert.Equal(t, 3, scraping[2].Total)
	assert.Equal(t, "C Engineering College", scraping[2].Label)
}

func TestRun_FallbackUsedWhenPrimaryEmpty(t *testing.T) {
	sites := collegeSites(t, nil)
	defer sites.Close()

	s := newStack(t, "<html><body>No results</body></html>", duckPage(sites.URL, "x", "y"), 2*time.Second)
	rec := newRecorder()

	err := s.orch.Run(context.Background(), models.SearchRequest{State: "Kerala", Branch: "All Branches"}, rec)
	require.NoError(t, err)

	assert.EqualValues(t, 1, s.primary.hits.Load())
	assert.EqualValues(t, 1, s.fallback.hits.Load())
	assert.Equal(t, []string{"primary", "fallback"}, s.order)

	require.Len(t, rec.done, 1)
	assert.True(t, rec.done[0].Success)
	assert.Equal(t, 2, rec.done[0].TotalFound)

	var names []string
	for _, r := range s.store.List() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"X Engineering College", "Y Engineering College"}, names)

	var searching []string
	for _, p := range rec.progress {
		if strings.HasPrefix(p.Message, "Searching ") {
			searching = append(searching, p.Message)
		}
	}
	assert.Equal(t, []string{"Searching Google...", "Searching DuckDuckGo..."}, searching)
}

func TestRun_TimeoutSkipsCandidate(t *testing.T) {
	sites := collegeSites(t, map[string]time.Duration{"/b": 2 * time.Second})
	defer sites.Close()

	s := newStack(t, googlePage(sites.URL, "a", "b", "c"), "", 200*time.Millisecond)
	rec := newRecorder()

	err := s.orch.Run(context.Background(), models.SearchRequest{State: "Kerala", Branch: "Civil Engineering", MaxResults: 5}, rec)
	require.NoError(t, err)

	require.Len(t, rec.done, 1)
	assert.True(t, rec.done[0].Success)
	assert.Equal(t, 2, rec.done[0].TotalFound)

	records := s.store.List()
	require.Len(t, records, 2)
	assert.Equal(t, "A Engineering College", records[0].Name)
	assert.Equal(t, "C Engineering College", records[1].Name)

	logs := s.logs.String()
	assert.Contains(t, logs, "Skipping candidate")
	assert.Contains(t, logs, sites.URL+"/b")
	assert.Contains(t, rec.transcript(), "  ❌ Error:")
}

func TestRun_MissingBranchRejected(t *testing.T) {
	sites := collegeSites(t, nil)
	defer sites.Close()

	s := newStack(t, googlePage(sites.URL, "a"), duckPage(sites.URL, "a"), 2*time.Second)
	existing := &models.CollegeRecord{Name: "Kept College", Website: "https://kept.ac.in"}
	require.True(t, s.store.Add(existing))

	rec := newRecorder()
	err := s.orch.Run(context.Background(), models.SearchRequest{State: "Kerala"}, rec)

	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "branch is required")
	assert.EqualValues(t, 0, s.primary.hits.Load())
	assert.EqualValues(t, 0, s.fallback.hits.Load())
	assert.Empty(t, rec.done)
	assert.Equal(t, []*models.CollegeRecord{existing}, s.store.List())
	assert.Equal(t, StateIdle, s.orch.State())
}

func TestRun_NoResults(t *testing.T) {
	s := newStack(t, "<html></html>", "<html></html>", time.Second)
	rec := newRecorder()

	err := s.orch.Run(context.Background(), models.SearchRequest{State: "Goa", Branch: "All Branches"}, rec)
	require.NoError(t, err)

	require.Len(t, rec.done, 1)
	assert.False(t, rec.done[0].Success)
	assert.Zero(t, rec.done[0].TotalFound)
	assert.NoError(t, rec.done[0].Err)
	assert.Contains(t, rec.transcript(), "No college websites found")
}

func TestRun_RejectsUnknownCollegeType(t *testing.T) {
	s := newStack(t, "", "", time.Second)
	err := s.orch.Run(context.Background(), models.SearchRequest{State: "Goa", Branch: "All Branches", CollegeType: "Deemed"}, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

type blockingSearcher struct {
	release chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (b *blockingSearcher) Search(ctx context.Context, q search.Query, onAttempt func(search.Provider)) []models.SearchCandidate {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return nil
}

type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(ctx context.Context, url, fallbackName, state string) (*models.CollegeRecord, error) {
	panic("record store corrupted")
}

type fixedSearcher []models.SearchCandidate

func (f fixedSearcher) Search(ctx context.Context, q search.Query, onAttempt func(search.Provider)) []models.SearchCandidate {
	return f
}

func TestStart_RejectsConcurrentRun(t *testing.T) {
	bs := &blockingSearcher{release: make(chan struct{}), entered: make(chan struct{})}
	o := New(bs, panickingAnalyzer{}, store.New(), nil, Config{}, zerolog.Nop())

	rec := newRecorder()
	req := models.SearchRequest{State: "Kerala", Branch: "All Branches"}
	require.NoError(t, o.Start(context.Background(), req, rec))
	<-bs.entered

	assert.True(t, o.Running())
	assert.Equal(t, StateSearching, o.State())
	assert.ErrorIs(t, o.Run(context.Background(), req, nil), ErrBusy)

	close(bs.release)
	select {
	case <-rec.doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}
	assert.False(t, o.Running())
	assert.NoError(t, o.Run(context.Background(), req, nil))
}

func TestStart_FromDoneHandler(t *testing.T) {
	o := New(fixedSearcher(nil), panickingAnalyzer{}, store.New(), nil, Config{}, zerolog.Nop())
	req := models.SearchRequest{State: "Kerala", Branch: "All Branches"}

	var (
		runningAtDone bool
		restartErr    error
	)
	n := NotifierFuncs{OnDone: func(models.DoneEvent) {
		runningAtDone = o.Running()
		restartErr = o.Start(context.Background(), req, nil)
	}}

	require.NoError(t, o.Run(context.Background(), req, n))
	assert.False(t, runningAtDone)
	assert.NoError(t, restartErr)
	assert.Eventually(t, func() bool { return !o.Running() }, time.Second, 10*time.Millisecond)
}

func TestRun_PanicBecomesFailedRun(t *testing.T) {
	o := New(fixedSearcher{{Label: "A College", URL: "https://a.ac.in"}}, panickingAnalyzer{}, store.New(), nil, Config{}, zerolog.Nop())
	rec := newRecorder()

	err := o.Run(context.Background(), models.SearchRequest{State: "Kerala", Branch: "All Branches"}, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record store corrupted")

	require.Len(t, rec.done, 1)
	assert.False(t, rec.done[0].Success)
	assert.Equal(t, err, rec.done[0].Err)
	assert.False(t, o.Running())
}

type erroringAnalyzer struct{ calls atomic.Int32 }

func (e *erroringAnalyzer) Analyze(ctx context.Context, url, fallbackName, state string) (*models.CollegeRecord, error) {
	e.calls.Add(1)
	return nil, errors.New("connection reset")
}

func TestRun_DelayFollowsEveryCandidate(t *testing.T) {
	ea := &erroringAnalyzer{}
	o := New(fixedSearcher{
		{Label: "A College", URL: "https://a.ac.in"},
		{Label: "B College", URL: "https://b.ac.in"},
	}, ea, store.New(), nil, Config{CandidateDelay: 50 * time.Millisecond}, zerolog.Nop())

	start := time.Now()
	require.NoError(t, o.Run(context.Background(), models.SearchRequest{State: "Kerala", Branch: "All Branches"}, nil))

	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.EqualValues(t, 2, ea.calls.Load())
}

func TestRun_CancelledDuringDelay(t *testing.T) {
	ea := &erroringAnalyzer{}
	o := New(fixedSearcher{
		{Label: "A College", URL: "https://a.ac.in"},
		{Label: "B College", URL: "https://b.ac.in"},
	}, ea, store.New(), nil, Config{CandidateDelay: time.Minute}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	rec := newRecorder()
	err := o.Run(ctx, models.SearchRequest{State: "Kerala", Branch: "All Branches"}, rec)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.EqualValues(t, 1, ea.calls.Load())
	require.Len(t, rec.done, 1)
	assert.False(t, rec.done[0].Success)
}
