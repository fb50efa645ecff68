// Package orchestrator runs a search end to end: query the providers, analyze every
// candidate site in order, and collect the valid records.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/law-makers/collegecrawl/internal/cache"
	"github.com/law-makers/collegecrawl/internal/reqctx"
	"github.com/law-makers/collegecrawl/internal/search"
	"github.com/law-makers/collegecrawl/internal/store"
	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/rs/zerolog"
)

var (
	// ErrBusy is returned when a run is requested while another is active.
	ErrBusy = errors.New("a search is already in progress")

	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid search request")
)

// State is the phase of the current or last run.
type State int32

const (
	StateIdle State = iota
	StateSearching
	StateScraping
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateScraping:
		return "scraping"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Searcher produces candidates, trying fallbacks as needed. onAttempt is called before
// each provider is queried.
type Searcher interface {
	Search(ctx context.Context, q search.Query, onAttempt func(search.Provider)) []models.SearchCandidate
}

// SiteAnalyzer turns one candidate URL into a record.
type SiteAnalyzer interface {
	Analyze(ctx context.Context, url, fallbackName, state string) (*models.CollegeRecord, error)
}

// Config holds run settings.
type Config struct {
	// CandidateDelay is the pause after every candidate, successful or not.
	CandidateDelay time.Duration

	// DefaultMaxResults applies when a request leaves MaxResults at zero.
	DefaultMaxResults int

	// CollegeTypes lists the accepted request college types. Empty accepts anything.
	CollegeTypes []string
}

// Orchestrator sequences one search at a time.
type Orchestrator struct {
	searcher Searcher
	analyzer SiteAnalyzer
	store    *store.RecordStore
	cache    cache.Cache
	cfg      Config
	validate *validator.Validate
	logger   zerolog.Logger

	running atomic.Bool
	state   atomic.Int32
}

// New creates an Orchestrator. pageCache may be nil; when set it is cleared with the
// store at the start of every run.
func New(searcher Searcher, analyzer SiteAnalyzer, records *store.RecordStore, pageCache cache.Cache, cfg Config, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		searcher: searcher,
		analyzer: analyzer,
		store:    records,
		cache:    pageCache,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// State returns the phase of the current or most recent run.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Running reports whether a run is active.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// Store returns the record store the orchestrator fills.
func (o *Orchestrator) Store() *store.RecordStore {
	return o.store
}

// Run validates req and executes the run on the calling goroutine. It returns
// ErrInvalidRequest or ErrBusy without side effects when the run cannot start, and the
// run's fatal error, if any, after the Done notification has been sent.
func (o *Orchestrator) Run(ctx context.Context, req models.SearchRequest, n Notifier) error {
	req, err := o.begin(req)
	if err != nil {
		return err
	}
	return o.execute(ctx, req, n)
}

// Start is Run on a new goroutine. Rejections are still returned synchronously.
func (o *Orchestrator) Start(ctx context.Context, req models.SearchRequest, n Notifier) error {
	req, err := o.begin(req)
	if err != nil {
		return err
	}
	go o.execute(ctx, req, n)
	return nil
}

// begin normalizes and validates req, then takes the single-run guard.
func (o *Orchestrator) begin(req models.SearchRequest) (models.SearchRequest, error) {
	req.State = strings.TrimSpace(req.State)
	req.Branch = strings.TrimSpace(req.Branch)
	req.CollegeType = strings.TrimSpace(req.CollegeType)
	if req.CollegeType == "" {
		req.CollegeType = models.AllTypes
	}

	if err := o.validate.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %s", ErrInvalidRequest, describeValidation(err))
	}
	if len(o.cfg.CollegeTypes) > 0 && !slices.Contains(o.cfg.CollegeTypes, req.CollegeType) {
		return req, fmt.Errorf("%w: unknown college type %q", ErrInvalidRequest, req.CollegeType)
	}
	if req.MaxResults == 0 {
		req.MaxResults = o.cfg.DefaultMaxResults
	}

	if !o.running.CompareAndSwap(false, true) {
		return req, ErrBusy
	}
	return req, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, ", ")
}

func (o *Orchestrator) execute(ctx context.Context, req models.SearchRequest, n Notifier) (err error) {
	if n == nil {
		n = nopNotifier{}
	}
	ctx = reqctx.WithRunContext(ctx)
	logger := reqctx.Logger(ctx, o.logger)

	defer func() {
		if r := recover(); r != nil {
			err = reqctx.NewRunError(ctx, fmt.Errorf("run aborted: %v", r))
			logger.Error().Err(err).Msg("Search failed")
			n.Result(models.ResultEvent{Text: "\n❌ Error: " + err.Error()})
		}
		o.state.Store(int32(StateDone))
		total := o.store.Count()
		// Released before Done so the consumer can start the next run from the handler.
		o.running.Store(false)
		n.Done(models.DoneEvent{Success: err == nil && total > 0, TotalFound: total, Err: err})
	}()

	o.state.Store(int32(StateSearching))
	logger.Info().
		Str("state", req.State).
		Str("branch", req.Branch).
		Str("college_type", req.CollegeType).
		Int("max_results", req.MaxResults).
		Msg("Starting search")

	o.store.Clear()
	if o.cache != nil {
		if cerr := o.cache.Clear(); cerr != nil {
			logger.Warn().Err(cerr).Msg("Failed to clear page cache")
		}
	}

	rule := strings.Repeat("=", 80)
	n.Result(models.ResultEvent{Text: rule})
	n.Result(models.ResultEvent{Text: fmt.Sprintf("Searching for %s colleges in %s", req.Branch, req.State)})
	n.Result(models.ResultEvent{Text: "College Type: " + req.CollegeType})
	n.Result(models.ResultEvent{Text: rule + "\n"})

	candidates := o.searcher.Search(ctx, search.Query{
		State:       req.State,
		Branch:      req.Branch,
		CollegeType: req.CollegeType,
		Limit:       req.MaxResults,
	}, func(p search.Provider) {
		n.Progress(models.ProgressEvent{Message: fmt.Sprintf("Searching %s...", p.Name())})
	})

	if len(candidates) == 0 {
		if ctx.Err() != nil {
			return reqctx.NewRunError(ctx, ctx.Err())
		}
		logger.Info().Msg("No college websites found")
		n.Result(models.ResultEvent{Text: "❌ No college websites found. Try different search parameters."})
		n.Progress(models.ProgressEvent{Message: "Search completed - No results found"})
		return nil
	}

	n.Result(models.ResultEvent{Text: fmt.Sprintf("✓ Found %d potential college websites\n", len(candidates))})

	o.state.Store(int32(StateScraping))
	n.Progress(models.ProgressEvent{Message: "Scraping college websites...", Total: len(candidates)})

	for i, cand := range candidates {
		if ctx.Err() != nil {
			return reqctx.NewRunError(ctx, ctx.Err())
		}
		o.scrapeCandidate(ctx, logger, n, req.State, i+1, len(candidates), cand)
		if err := sleep(ctx, o.cfg.CandidateDelay); err != nil {
			return reqctx.NewRunError(ctx, err)
		}
	}

	total := o.store.Count()
	n.Result(models.ResultEvent{Text: "\n" + rule})
	n.Result(models.ResultEvent{Text: "Search Complete!"})
	n.Result(models.ResultEvent{Text: fmt.Sprintf("Total colleges found: %d", total)})
	n.Result(models.ResultEvent{Text: rule})
	n.Progress(models.ProgressEvent{Message: "Search completed"})

	logger.Info().
		Int("total", total).
		Dur("elapsed", reqctx.Elapsed(ctx)).
		Msg("Search completed")
	return nil
}

// scrapeCandidate analyzes one candidate. Failures stay inside this call.
func (o *Orchestrator) scrapeCandidate(ctx context.Context, logger zerolog.Logger, n Notifier, state string, idx, total int, cand models.SearchCandidate) {
	n.Progress(models.ProgressEvent{
		Message: fmt.Sprintf("Scraping %d/%d: %s", idx, total, cand.Label),
		Current: idx,
		Total:   total,
		Label:   cand.Label,
	})
	n.Result(models.ResultEvent{Text: fmt.Sprintf("[%d/%d] Scraping: %s", idx, total, cand.Label)})

	record, err := o.analyzer.Analyze(ctx, cand.URL, cand.Label, state)
	if err != nil {
		logger.Warn().Err(err).Str("url", cand.URL).Msg("Skipping candidate")
		n.Result(models.ResultEvent{Text: fmt.Sprintf("  ❌ Error: %v\n", err)})
		return
	}

	if !o.store.Add(record) {
		logger.Debug().Str("url", cand.URL).Str("name", record.Name).Msg("Dropped invalid or duplicate record")
		n.Result(models.ResultEvent{Text: "  ⚠ Could not extract sufficient information\n"})
		return
	}

	n.Result(models.ResultEvent{Text: "  ✓ Name: " + record.Name})
	n.Result(models.ResultEvent{Text: "  ✓ Email: " + orNotFound(record.Email)})
	n.Result(models.ResultEvent{Text: "  ✓ Contact: " + orNotFound(record.AdminContact)})
	n.Result(models.ResultEvent{Text: "  ✓ Location: " + record.Location})
	n.Result(models.ResultEvent{Text: "  ✓ Type: " + record.CollegeType})
	if len(record.Branches) > 0 {
		branches := record.Branches
		if len(branches) > 3 {
			branches = branches[:3]
		}
		n.Result(models.ResultEvent{Text: "  ✓ Branches: " + strings.Join(branches, ", ")})
	}
	n.Result(models.ResultEvent{Text: ""})
}

func orNotFound(s string) string {
	if s == "" {
		return "Not found"
	}
	return s
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
