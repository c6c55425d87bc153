package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/index"
	"github.com/poiesic/launchpad/plugins"
	"github.com/poiesic/launchpad/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource returns fixed results and counts calls.
type countingSource struct {
	results []core.SearchResult
	err     error
	panics  bool
	calls   atomic.Int32
}

func (s *countingSource) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	s.calls.Add(1)
	if s.panics {
		panic("source exploded")
	}
	out := make([]core.SearchResult, len(s.results))
	copy(out, s.results)
	return out, s.err
}

// recordingMonitor records the hooks it receives.
type recordingMonitor struct {
	started  string
	sources  []string
	errs     map[string]error
	boosted  int
	finished int
}

func (m *recordingMonitor) Start(query string) { m.started = query }
func (m *recordingMonitor) SourceFinished(source string, results int, err error) {
	m.sources = append(m.sources, source)
	if err != nil {
		if m.errs == nil {
			m.errs = make(map[string]error)
		}
		m.errs[source] = err
	}
}
func (m *recordingMonitor) AfterBoost(results []core.SearchResult) { m.boosted = len(results) }
func (m *recordingMonitor) Finish(results []core.SearchResult)     { m.finished = len(results) }

func scored(title string, score float64, category core.Category) core.SearchResult {
	return core.NewSearchResult(title, "").WithScore(score).WithCategory(category)
}

func noFuzzy(string, string) (float64, bool) { return 0, false }

func newConfigStore(t *testing.T, opts ...config.Option) *config.Store {
	t.Helper()
	store, err := config.NewStore(config.NewConfig(opts...))
	require.NoError(t, err)
	return store
}

func newTestEngine(t *testing.T, cfg *config.Store, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, opts...)
	require.NoError(t, err)
	return e
}

func titles(results []core.SearchResult) []string {
	out := make([]string, len(results))
	for i := range results {
		out[i] = results[i].Title
	}
	return out
}

func TestNewEngine_RequiresConfig(t *testing.T) {
	_, err := NewEngine(nil)
	assert.ErrorIs(t, err, ErrConfigRequired)
}

func TestSearch_EmptyQueryInvokesNoSource(t *testing.T) {
	apps := &countingSource{results: []core.SearchResult{scored("a", 0.5, core.CategoryApplication)}}
	files := &countingSource{results: []core.SearchResult{scored("f", 0.5, core.CategoryFile)}}
	plugs := &countingSource{results: []core.SearchResult{scored("p", 0.5, core.PluginCategory("X"))}}
	monitor := &recordingMonitor{}

	e := newTestEngine(t, newConfigStore(t),
		WithApplicationSource(apps), WithFileSource(files), WithPluginSource(plugs))

	for _, q := range []string{"", " ", "\t\n"} {
		assert.Empty(t, e.SearchWithMonitor(context.Background(), q, monitor))
	}
	assert.Zero(t, apps.calls.Load())
	assert.Zero(t, files.calls.Load())
	assert.Zero(t, plugs.calls.Load())
	assert.Empty(t, monitor.started)
}

func TestSearch_SourceGating(t *testing.T) {
	tests := []struct {
		name       string
		opts       []config.Option
		wantTitles []string
		appCalls   int32
		fileCalls  int32
	}{
		{"all enabled", nil, []string{"app", "file", "plugin"}, 1, 1},
		{"file search disabled", []config.Option{config.WithFileSearch(false)}, []string{"app", "plugin"}, 1, 0},
		{"app search disabled", []config.Option{config.WithAppSearch(false)}, []string{"file", "plugin"}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := &countingSource{results: []core.SearchResult{scored("app", 0.5, core.CategoryApplication)}}
			files := &countingSource{results: []core.SearchResult{scored("file", 0.5, core.CategoryFile)}}
			plugs := &countingSource{results: []core.SearchResult{scored("plugin", 0.5, core.PluginCategory("X"))}}

			e := newTestEngine(t, newConfigStore(t, tt.opts...),
				WithApplicationSource(apps), WithFileSource(files), WithPluginSource(plugs),
				WithFuzzyScorer(noFuzzy))

			got := e.Search(context.Background(), "q")
			assert.Equal(t, tt.wantTitles, titles(got))
			assert.Equal(t, tt.appCalls, apps.calls.Load())
			assert.Equal(t, tt.fileCalls, files.calls.Load())
			for _, r := range got {
				if tt.fileCalls == 0 {
					assert.NotEqual(t, core.CategoryFile, r.Category)
				}
			}
		})
	}
}

func TestSearch_LiveConfigSnapshot(t *testing.T) {
	cfg := newConfigStore(t)
	files := &countingSource{results: []core.SearchResult{scored("file", 0.5, core.CategoryFile)}}
	e := newTestEngine(t, cfg, WithFileSource(files), WithFuzzyScorer(noFuzzy))

	assert.Len(t, e.Search(context.Background(), "q"), 1)

	_, err := cfg.Update(func(c *config.Config) { c.Search.EnableFileSearch = false })
	require.NoError(t, err)
	assert.Empty(t, e.Search(context.Background(), "q"))
}

func TestSearch_MaxResultsBound(t *testing.T) {
	var many []core.SearchResult
	for i := range 30 {
		many = append(many, scored(fmt.Sprintf("r%02d", i), float64(i)/30, core.CategoryFile))
	}

	for _, limit := range []int{1, 5, 10, 100} {
		t.Run(fmt.Sprint(limit), func(t *testing.T) {
			e := newTestEngine(t, newConfigStore(t, config.WithMaxResults(limit)),
				WithFileSource(&countingSource{results: many}))

			got := e.Search(context.Background(), "r")
			assert.LessOrEqual(t, len(got), limit)
			assert.Len(t, got, min(limit, len(many)))
		})
	}
}

func TestSearch_ScoresStayInRange(t *testing.T) {
	src := &countingSource{results: []core.SearchResult{
		{Title: "negative", Score: -3, Action: core.CopyToClipboard{}, Category: core.PluginCategory("X")},
		{Title: "huge", Score: 42, Action: core.CopyToClipboard{}, Category: core.PluginCategory("X")},
		{Title: "nan", Score: math.NaN(), Action: core.CopyToClipboard{}, Category: core.PluginCategory("X")},
		{Title: "fine", Score: 0.4, Action: core.CopyToClipboard{}, Category: core.PluginCategory("X")},
	}}
	alwaysOne := func(string, string) (float64, bool) { return 1, true }

	for name, scorer := range map[string]FuzzyScorer{"no fuzzy": noFuzzy, "full fuzzy": alwaysOne} {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t, newConfigStore(t), WithPluginSource(src), WithFuzzyScorer(scorer))
			got := e.Search(context.Background(), "x")
			require.Len(t, got, 4)
			for _, r := range got {
				assert.GreaterOrEqual(t, r.Score, 0.0, r.Title)
				assert.LessOrEqual(t, r.Score, 1.0, r.Title)
			}
		})
	}
}

func TestSearch_DropsInvalidPluginResults(t *testing.T) {
	plugs := &countingSource{results: []core.SearchResult{
		scored("", 0.9, core.PluginCategory("X")),
		{Title: "no action", Score: 0.9, Category: core.PluginCategory("X")},
		scored("unnamed plugin", 0.9, core.Category{Kind: core.KindPlugin}),
		scored("valid", 0.5, core.PluginCategory("X")),
	}}
	e := newTestEngine(t, newConfigStore(t), WithPluginSource(plugs), WithFuzzyScorer(noFuzzy))

	got := e.Search(context.Background(), "x")
	assert.Equal(t, []string{"valid"}, titles(got))
}

func TestSearch_FuzzyBoostAndOrdering(t *testing.T) {
	apps := &countingSource{results: []core.SearchResult{scored("alpha", 0.8, core.CategoryApplication)}}
	files := &countingSource{results: []core.SearchResult{scored("beta", 0.5, core.CategoryFile), scored("tie", 0.5, core.CategoryFile)}}
	plugs := &countingSource{results: []core.SearchResult{scored("gamma", 0.5, core.PluginCategory("X"))}}

	boostBeta := func(title, _ string) (float64, bool) {
		if title == "beta" {
			return 1.0, true
		}
		return 0, false
	}

	monitor := &recordingMonitor{}
	e := newTestEngine(t, newConfigStore(t),
		WithApplicationSource(apps), WithFileSource(files), WithPluginSource(plugs),
		WithFuzzyScorer(boostBeta))

	got := e.SearchWithMonitor(context.Background(), "q", monitor)
	require.Len(t, got, 4)

	// beta: (0.5 + 1.0) / 2; ties keep source order (files before plugins).
	assert.Equal(t, []string{"alpha", "beta", "tie", "gamma"}, titles(got))
	assert.InDelta(t, 0.75, got[1].Score, 1e-9)
	assert.Equal(t, 0.5, got[2].Score)

	assert.Equal(t, "q", monitor.started)
	assert.Equal(t, []string{SourceApplications, SourceFiles, SourcePlugins}, monitor.sources)
	assert.Equal(t, 4, monitor.boosted)
	assert.Equal(t, 4, monitor.finished)
}

func TestSearch_FailingSourcesAreSwallowed(t *testing.T) {
	apps := &countingSource{err: errors.New("index gone")}
	files := &countingSource{panics: true}
	plugs := &countingSource{results: []core.SearchResult{scored("ok", 0.5, core.PluginCategory("X"))}}
	monitor := &recordingMonitor{}

	e := newTestEngine(t, newConfigStore(t),
		WithApplicationSource(apps), WithFileSource(files), WithPluginSource(plugs),
		WithFuzzyScorer(noFuzzy))

	got := e.SearchWithMonitor(context.Background(), "q", monitor)
	assert.Equal(t, []string{"ok"}, titles(got))
	assert.ErrorIs(t, monitor.errs[SourceApplications], ErrIndexUnavailable)
	assert.ErrorIs(t, monitor.errs[SourceFiles], ErrIndexUnavailable)
	assert.NotContains(t, monitor.errs, SourcePlugins)
}

func TestSearch_PluginErrorsWrapped(t *testing.T) {
	monitor := &recordingMonitor{}
	e := newTestEngine(t, newConfigStore(t),
		WithPluginSource(&countingSource{err: errors.New("timeout")}))

	assert.Empty(t, e.SearchWithMonitor(context.Background(), "q", monitor))
	assert.ErrorIs(t, monitor.errs[SourcePlugins], ErrPluginFailure)
}

func TestSearch_IndexAndPlugins(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := index.NewStore()
	store.ReplaceApplications([]core.AppEntry{
		{Name: "Calculator", ExecutablePath: "/usr/bin/gnome-calculator"},
		{Name: "Visual Studio Code", ExecutablePath: "/usr/bin/code", UsageCount: 10, LastUsed: now},
	})

	host, err := plugins.NewHost()
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close(context.Background()) })
	require.NoError(t, host.LoadBuiltins(context.Background(), []string{plugins.BuiltinCalculator}, plugins.TranslatorConfig{}))

	e := newTestEngine(t, newConfigStore(t),
		WithApplicationSource(ApplicationSource(store, func() time.Time { return now })),
		WithFileSource(FileSource(store)),
		WithPluginSource(host))

	t.Run("code", func(t *testing.T) {
		got := e.Search(context.Background(), "code")
		assert.Contains(t, titles(got), "Visual Studio Code")
		assert.NotContains(t, titles(got), "Calculator")
		for _, r := range got {
			assert.GreaterOrEqual(t, r.Score, 0.0)
			assert.LessOrEqual(t, r.Score, 1.0)
		}
	})

	t.Run("arithmetic", func(t *testing.T) {
		got := e.Search(context.Background(), "2+2")
		require.NotEmpty(t, got)
		assert.Equal(t, "2+2 = 4", got[0].Title)
		assert.Equal(t, core.CopyToClipboard{Text: "4"}, got[0].Action)
	})

	t.Run("idempotent", func(t *testing.T) {
		first := e.Search(context.Background(), "calc")
		second := e.Search(context.Background(), "calc")
		assert.Equal(t, first, second)
	})
}

func TestAddToHistory(t *testing.T) {
	_, selections, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result := scored("Firefox", 0.9, core.CategoryApplication).
		WithAction(core.ExecuteApplication{Path: "/usr/bin/firefox"})

	t.Run("enabled", func(t *testing.T) {
		e := newTestEngine(t, newConfigStore(t),
			WithSelectionRepository(selections), WithClock(func() time.Time { return at }))

		require.NoError(t, e.AddToHistory(context.Background(), "fire", result))

		recent, err := e.RecentSelections(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "fire", recent[0].Query)
		assert.Equal(t, "Firefox", recent[0].Title)
		assert.Equal(t, core.CategoryApplication.String(), recent[0].Category)
		assert.Equal(t, "execute_application", recent[0].Action)
		assert.True(t, at.Equal(recent[0].SelectedAt))
	})

	t.Run("disabled", func(t *testing.T) {
		e := newTestEngine(t, newConfigStore(t, config.WithSaveSearchHistory(false)),
			WithSelectionRepository(selections))

		require.NoError(t, e.AddToHistory(context.Background(), "other", result))

		recent, err := e.RecentSelections(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, recent, 1)
	})

	t.Run("without repository", func(t *testing.T) {
		e := newTestEngine(t, newConfigStore(t))
		require.NoError(t, e.AddToHistory(context.Background(), "q", result))

		recent, err := e.RecentSelections(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, recent)
	})
}
