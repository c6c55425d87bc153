package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	results  []core.SearchResult
	executed []string
	fail     error
}

func (f *fakeSession) Search(ctx context.Context, query string) []core.SearchResult {
	return f.results
}

func (f *fakeSession) Execute(ctx context.Context, query string, result core.SearchResult) error {
	if f.fail != nil {
		return f.fail
	}
	f.executed = append(f.executed, query+"|"+result.Title)
	return nil
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, level := range []string{"debug", "INFO", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			app := newApp()
			app.Writer = &bytes.Buffer{}
			path := filepath.Join(t.TempDir(), "config.yaml")
			err := app.Run([]string{"launchpad", "--log-level", level, "--config", path, "config", "init"})
			require.NoError(t, err)
		})
	}

	t.Run("invalid level", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		err := app.Run([]string{"launchpad", "--log-level", "verbose", "stats"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestConfigInit(t *testing.T) {
	t.Run("creates the default file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out

		require.NoError(t, app.Run([]string{"launchpad", "--config", path, "config", "init"}))
		assert.Contains(t, out.String(), path)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig().Behavior, cfg.Behavior)
	})

	t.Run("keeps an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("behavior:\n  max_results: 5\n"), 0o644))

		app := newApp()
		app.Writer = &bytes.Buffer{}
		require.NoError(t, app.Run([]string{"launchpad", "--config", path, "config", "init"}))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Behavior.MaxResults)
	})

	t.Run("force overwrites", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("behavior:\n  max_results: 5\n"), 0o644))

		app := newApp()
		app.Writer = &bytes.Buffer{}
		require.NoError(t, app.Run([]string{"launchpad", "--config", path, "config", "init", "--force"}))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Behavior.MaxResults)
	})

	t.Run("invalid file is reported", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("behavior:\n  max_results: 0\n"), 0o644))

		app := newApp()
		app.Writer = &bytes.Buffer{}
		err := app.Run([]string{"launchpad", "--config", path, "config", "init"})
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"launchpad", "search", "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a query")
}

func TestHistoryCommandLimit(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"launchpad", "history", "--limit", "0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestTopCommandLimit(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"launchpad", "top", "--limit", "-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestTopCommandWithoutUsage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
behavior:
  rebuild_index_on_startup: false
search:
  include_paths:
    linux: []
    macos: []
    windows: []
plugins:
  enabled: []
`), 0o644))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run([]string{"launchpad", "--config", path, "--data-dir", filepath.Join(dir, "data"), "top"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No usage recorded")
}

func TestPrintResults(t *testing.T) {
	results := []core.SearchResult{
		core.NewSearchResult("Firefox", "Web browser").
			WithCategory(core.CategoryApplication).
			WithScore(0.95),
		core.NewSearchResult("2+2 = 4", "").
			WithCategory(core.PluginCategory("Calculator")).
			WithScore(0.9),
	}

	var out bytes.Buffer
	printResults(&out, results)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], " 1. 0.95")
	assert.Contains(t, lines[0], "application")
	assert.Contains(t, lines[0], "Firefox")
	assert.Contains(t, lines[1], "Web browser")
	assert.Contains(t, lines[2], " 2. 0.90")
	assert.Contains(t, lines[2], "plugin:Calculator")
}

func TestRunLoop(t *testing.T) {
	results := []core.SearchResult{
		core.NewSearchResult("Firefox", "").WithCategory(core.CategoryApplication),
		core.NewSearchResult("Files", "").WithCategory(core.CategoryApplication),
	}

	t.Run("executes the chosen result", func(t *testing.T) {
		s := &fakeSession{results: results}
		var out bytes.Buffer

		err := runLoop(context.Background(), s, strings.NewReader("fi\n2\nquit\n"), &out)
		require.NoError(t, err)
		assert.Equal(t, []string{"fi|Files"}, s.executed)
		assert.Contains(t, out.String(), "Executed Files")
	})

	t.Run("skips empty and invalid selections", func(t *testing.T) {
		s := &fakeSession{results: results}
		var out bytes.Buffer

		err := runLoop(context.Background(), s, strings.NewReader("fi\n\nfi\n7\nfi\nx\n"), &out)
		require.NoError(t, err)
		assert.Empty(t, s.executed)
		assert.Equal(t, 2, strings.Count(out.String(), "Invalid selection"))
	})

	t.Run("reports no results", func(t *testing.T) {
		s := &fakeSession{}
		var out bytes.Buffer

		require.NoError(t, runLoop(context.Background(), s, strings.NewReader("zzz\n"), &out))
		assert.Contains(t, out.String(), "No results")
	})

	t.Run("reports execution failures", func(t *testing.T) {
		s := &fakeSession{results: results, fail: errors.New("boom")}
		var out bytes.Buffer

		require.NoError(t, runLoop(context.Background(), s, strings.NewReader("fi\n1\n"), &out))
		assert.Contains(t, out.String(), "Failed: boom")
	})
}
