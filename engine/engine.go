package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/scoring"
	"github.com/poiesic/launchpad/storage"
)

// Source names reported to a SearchMonitor.
const (
	SourceApplications = "applications"
	SourceFiles        = "files"
	SourcePlugins      = "plugins"
)

// FuzzyScorer returns an approximate match score in [0, 1] for title against
// query, or false when the pair does not match at all.
type FuzzyScorer func(title, query string) (float64, bool)

// Engine federates a query across the application, file and plugin sources
// and merges their results into one ranked, bounded list.
type Engine struct {
	config     *config.Store
	apps       Source
	files      Source
	plugins    Source
	selections storage.SelectionRepository
	fuzzy      FuzzyScorer
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithApplicationSource sets the application source.
func WithApplicationSource(source Source) Option {
	return func(e *Engine) error {
		e.apps = source
		return nil
	}
}

// WithFileSource sets the file source.
func WithFileSource(source Source) Option {
	return func(e *Engine) error {
		e.files = source
		return nil
	}
}

// WithPluginSource sets the plugin source.
func WithPluginSource(source Source) Option {
	return func(e *Engine) error {
		e.plugins = source
		return nil
	}
}

// WithSelectionRepository records chosen results when search history is enabled.
func WithSelectionRepository(repo storage.SelectionRepository) Option {
	return func(e *Engine) error {
		e.selections = repo
		return nil
	}
}

// WithFuzzyScorer replaces the fuzzy boost scorer.
// Default is scoring.FuzzyScore.
func WithFuzzyScorer(scorer FuzzyScorer) Option {
	return func(e *Engine) error {
		if scorer != nil {
			e.fuzzy = scorer
		}
		return nil
	}
}

// WithClock sets the time source for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		if now != nil {
			e.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates an engine reading its settings from cfg. Sources left
// unset contribute no results.
func NewEngine(cfg *config.Store, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	e := &Engine{
		config: cfg,
		fuzzy:  scoring.FuzzyScore,
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search returns the ranked results for query.
func (e *Engine) Search(ctx context.Context, query string) []core.SearchResult {
	return e.SearchWithMonitor(ctx, query, nil)
}

type branch struct {
	name    string
	source  Source
	enabled bool
	kind    error
}

type branchResult struct {
	results []core.SearchResult
	err     error
	ran     bool
}

// SearchWithMonitor returns the ranked results for query, reporting each
// stage to monitor.
//
// An empty or whitespace-only query returns no results without consulting
// any source. Otherwise the enabled sources run concurrently and their
// results are concatenated in source order: applications, files, plugins.
// A failing source is logged and contributes nothing. Each result whose title
// fuzzy-matches the query has its score replaced by the mean of its score and
// the fuzzy score. The list is then sorted by descending score and truncated
// to the configured maximum.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) []core.SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	cfg := e.config.Snapshot()
	monitor.Start(query)

	branches := []branch{
		{SourceApplications, e.apps, cfg.Search.EnableAppSearch, ErrIndexUnavailable},
		{SourceFiles, e.files, cfg.Search.EnableFileSearch, ErrIndexUnavailable},
		{SourcePlugins, e.plugins, true, ErrPluginFailure},
	}

	outcomes := make([]branchResult, len(branches))
	var wg sync.WaitGroup
	for i, b := range branches {
		if b.source == nil || !b.enabled {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = e.runSource(ctx, b, query)
		}()
	}
	wg.Wait()

	var results []core.SearchResult
	for i, outcome := range outcomes {
		if !outcome.ran {
			continue
		}
		monitor.SourceFinished(branches[i].name, len(outcome.results), outcome.err)
		results = append(results, outcome.results...)
	}

	for i := range results {
		if fuzzy, ok := e.fuzzy(results[i].Title, query); ok {
			results[i].Score = core.ClampScore((results[i].Score + fuzzy) / 2)
		}
	}
	monitor.AfterBoost(results)

	core.SortByScore(results)
	if maxResults := cfg.Behavior.MaxResults; len(results) > maxResults {
		results = results[:maxResults]
	}

	monitor.Finish(results)
	return results
}

func (e *Engine) runSource(ctx context.Context, b branch, query string) (outcome branchResult) {
	outcome.ran = true
	defer func() {
		if r := recover(); r != nil {
			outcome.results = nil
			outcome.err = fmt.Errorf("%w: %s panicked: %v", b.kind, b.name, r)
			e.logger.Error("search source panicked", "source", b.name, "panic", r)
		}
	}()

	results, err := b.source.Search(ctx, query)
	if err != nil {
		outcome.err = fmt.Errorf("%w: %s: %w", b.kind, b.name, err)
		e.logger.Warn("search source failed", "source", b.name, "err", outcome.err)
		return outcome
	}
	for i := range results {
		results[i].Score = core.ClampScore(results[i].Score)
	}
	if b.name == SourcePlugins {
		results = e.validPluginResults(results)
	}
	outcome.results = results
	return outcome
}

// validPluginResults drops plugin results the presentation layer cannot show
// or execute.
func (e *Engine) validPluginResults(results []core.SearchResult) []core.SearchResult {
	valid := results[:0]
	for i := range results {
		if err := core.ValidateSearchResult(&results[i]); err != nil {
			e.logger.Warn("dropping invalid plugin result", "title", results[i].Title, "err", err)
			continue
		}
		valid = append(valid, results[i])
	}
	return valid
}

// AddToHistory records that result was chosen for query. It never affects
// scoring. The selection is stored only when search history is enabled and a
// selection repository is configured.
func (e *Engine) AddToHistory(ctx context.Context, query string, result core.SearchResult) error {
	e.logger.Info("result selected", "query", query, "title", result.Title, "category", result.Category.String())

	if e.selections == nil || !e.config.Snapshot().Behavior.SaveSearchHistory {
		return nil
	}

	selection := &core.Selection{
		Query:      query,
		Title:      result.Title,
		Category:   result.Category.String(),
		SelectedAt: e.now(),
	}
	if result.Action != nil {
		selection.Action = result.Action.Kind()
	}
	if _, err := e.selections.AddSelection(ctx, selection); err != nil {
		e.logger.Warn("failed to record selection", "query", query, "err", err)
		return err
	}
	return nil
}

// RecentSelections returns up to limit recorded selections, newest first.
// Without a selection repository it returns nothing.
func (e *Engine) RecentSelections(ctx context.Context, limit int) ([]*core.Selection, error) {
	if e.selections == nil {
		return nil, nil
	}
	return e.selections.RecentSelections(ctx, limit)
}
