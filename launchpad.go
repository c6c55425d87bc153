// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package launchpad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/engine"
	"github.com/poiesic/launchpad/index"
	"github.com/poiesic/launchpad/platform"
	"github.com/poiesic/launchpad/plugins"
	"github.com/poiesic/launchpad/scoring"
	"github.com/poiesic/launchpad/storage"
	"github.com/poiesic/launchpad/storage/badger"
)

const (
	providerAttempts = 3
	providerDelay    = 200 * time.Millisecond
)

// Launcher wires the index, plugins, history and search engine together.
type Launcher struct {
	config     *config.Store
	backend    *badger.Backend
	usage      storage.UsageRepository
	selections storage.SelectionRepository
	store      *index.Store
	builder    *index.Builder
	host       *plugins.Host
	engine     *engine.Engine
	performer  *platform.Performer
	watcher    *index.Watcher
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Launcher.
type Option func(*options)

type options struct {
	config        *config.Config
	provider      platform.Provider
	performerOpts []platform.PerformerOption
	goos          string
	now           func() time.Time
	logger        *slog.Logger
}

// WithConfig sets the initial configuration.
// Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithProvider sets the application provider.
// Default is platform.NewProvider for the running system.
func WithProvider(provider platform.Provider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithPerformerOptions passes options to the action performer.
func WithPerformerOptions(opts ...platform.PerformerOption) Option {
	return func(o *options) {
		o.performerOpts = append(o.performerOpts, opts...)
	}
}

// WithPlatform selects which include_paths entry is scanned.
// Default is runtime.GOOS.
func WithPlatform(goos string) Option {
	return func(o *options) {
		o.goos = goos
	}
}

// WithClock sets the time source for scoring, usage and history.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a launcher. The index is rebuilt before New returns when
// behavior.rebuild_index_on_startup is set, and include paths are watched when
// search.watch_include_paths is set.
func New(ctx context.Context, opts ...Option) (*Launcher, error) {
	o := &options{
		goos:   runtime.GOOS,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.provider == nil {
		o.provider = platform.NewProvider(o.logger)
	}

	cfgStore, err := config.NewStore(o.config)
	if err != nil {
		return nil, err
	}
	cfg := cfgStore.Snapshot()

	l := &Launcher{
		config: cfgStore,
		store:  index.NewStore(),
		now:    o.now,
		logger: o.logger,
	}

	if err := l.openHistory(cfg.History.DataDir); err != nil {
		return nil, err
	}

	builderOpts := []index.Option{
		index.WithScanSettings(func() index.ScanSettings {
			snapshot := cfgStore.Snapshot()
			return index.ScanSettings{
				Roots:   snapshot.IncludeRoots(o.goos),
				Exclude: snapshot.Search.ExcludePatterns,
			}
		}),
		index.WithProviderRetry(providerAttempts, providerDelay),
		index.WithClock(o.now),
		index.WithLogger(o.logger),
	}
	if cfg.Behavior.RecordUsageStats {
		builderOpts = append(builderOpts, index.WithUsageRepository(l.usage))
	}
	l.builder, err = index.NewBuilder(l.store, o.provider, builderOpts...)
	if err != nil {
		l.Close()
		return nil, err
	}

	l.host, err = plugins.NewHost(plugins.WithLogger(o.logger))
	if err != nil {
		l.Close()
		return nil, err
	}
	translator := plugins.TranslatorConfig{
		Host:           cfg.Plugins.Translator.Host,
		Model:          cfg.Plugins.Translator.Model,
		TargetLanguage: cfg.Plugins.Translator.TargetLanguage,
		Timeout:        cfg.Plugins.Translator.Timeout,
	}
	if err := l.host.LoadBuiltins(ctx, cfg.EnabledPlugins(), translator); err != nil {
		l.Close()
		return nil, err
	}

	l.engine, err = engine.NewEngine(cfgStore,
		engine.WithApplicationSource(engine.ApplicationSource(l.store, o.now)),
		engine.WithFileSource(engine.FileSource(l.store)),
		engine.WithPluginSource(l.host),
		engine.WithSelectionRepository(l.selections),
		engine.WithClock(o.now),
		engine.WithLogger(o.logger),
	)
	if err != nil {
		l.Close()
		return nil, err
	}

	performerOpts := append([]platform.PerformerOption{
		platform.WithPluginExecutor(l.host),
		platform.WithPerformerLogger(o.logger),
	}, o.performerOpts...)
	l.performer = platform.NewPerformer(performerOpts...)

	if cfg.Behavior.RebuildIndexOnStartup {
		l.builder.Rebuild(ctx)
	}

	if cfg.Search.WatchIncludePaths {
		l.watcher, err = index.NewWatcher(l.builder, cfg.IncludeRoots(o.goos), index.WithWatcherLogger(o.logger))
		if err != nil {
			l.Close()
			return nil, err
		}
		l.watcher.Start(context.WithoutCancel(ctx))
	}

	return l, nil
}

func (l *Launcher) openHistory(dataDir string) error {
	var (
		backend *badger.Backend
		err     error
	)
	if dataDir == "" {
		backend, err = badger.OpenBackend("", true, badger.WithLogger(l.logger))
	} else {
		dir, expandErr := index.ExpandHome(dataDir)
		if expandErr != nil {
			return expandErr
		}
		backend, err = badger.OpenBackend(dir, false, badger.WithLogger(l.logger))
	}
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}

	l.backend = backend
	l.usage = badger.NewUsageRepository(backend)
	l.selections = badger.NewSelectionRepository(backend)
	return nil
}

// Config returns the live configuration store.
func (l *Launcher) Config() *config.Store {
	return l.config
}

// Search returns the ranked results for query.
func (l *Launcher) Search(ctx context.Context, query string) []core.SearchResult {
	return l.engine.Search(ctx, query)
}

// SearchWithMonitor returns the ranked results for query, reporting each
// search stage to monitor.
func (l *Launcher) SearchWithMonitor(ctx context.Context, query string, monitor engine.SearchMonitor) []core.SearchResult {
	return l.engine.SearchWithMonitor(ctx, query, monitor)
}

// Rebuild re-indexes applications and files.
func (l *Launcher) Rebuild(ctx context.Context) index.RebuildReport {
	return l.builder.Rebuild(ctx)
}

// Stats reports index sizes and freshness.
func (l *Launcher) Stats() index.Stats {
	return l.store.Stats(l.now())
}

// Execute performs result's action. On success it records usage for
// application results, hands plugin results to their plugin for follow-up,
// and adds the selection to the history. Follow-up failures are logged.
func (l *Launcher) Execute(ctx context.Context, query string, result core.SearchResult) error {
	if err := l.performer.Perform(ctx, result); err != nil {
		l.logger.Error("failed to perform action", "title", result.Title, "err", err)
		return fmt.Errorf("%w: %w", engine.ErrPlatformFailure, err)
	}

	switch result.Category.Kind {
	case core.KindApplication:
		l.builder.RecordUsage(ctx, result.Title)
	case core.KindPlugin:
		if _, delegated := result.Action.(core.PluginAction); !delegated {
			if err := l.host.Execute(ctx, result.Category.Plugin, result); err != nil {
				l.logger.Warn("plugin follow-up failed", "plugin", result.Category.Plugin, "err", err)
			}
		}
	}

	if err := l.engine.AddToHistory(ctx, query, result); err != nil {
		l.logger.Warn("failed to add selection to history", "err", err)
	}
	return nil
}

// History returns up to limit recent selections, newest first.
func (l *Launcher) History(ctx context.Context, limit int) ([]*core.Selection, error) {
	return l.engine.RecentSelections(ctx, limit)
}

// Usage returns the persisted application usage counters, most used first.
func (l *Launcher) Usage(ctx context.Context) ([]core.UsageRecord, error) {
	return l.usage.AllUsage(ctx)
}

// MostUsed returns up to limit indexed applications that have persisted
// usage, rendered as results scored by usage and recency, best first.
// Usage records of applications no longer installed are skipped.
func (l *Launcher) MostUsed(ctx context.Context, limit int) ([]core.SearchResult, error) {
	records, err := l.Usage(ctx)
	if err != nil {
		return nil, err
	}

	now := l.now()
	results := make([]core.SearchResult, 0, len(records))
	for _, record := range records {
		entry, ok := l.store.Application(record.Key)
		if !ok {
			l.logger.Debug("usage record without indexed application", "key", record.Key)
			continue
		}
		results = append(results, entry.ToSearchResult(scoring.AppBaseScore(&entry, now)))
	}
	core.SortByScore(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Close stops the watcher, shuts down plugins and closes the history store.
func (l *Launcher) Close() error {
	var errs []error

	if l.watcher != nil {
		if err := l.watcher.Close(); err != nil {
			l.logger.Error("error closing watcher", "err", err)
			errs = append(errs, err)
		}
	}
	if l.host != nil {
		if err := l.host.Close(context.Background()); err != nil {
			l.logger.Error("error closing plugins", "err", err)
			errs = append(errs, err)
		}
	}
	if l.builder != nil {
		l.builder.Release()
	}
	if l.selections != nil {
		if err := l.selections.Close(); err != nil {
			l.logger.Error("error closing selection repository", "err", err)
			errs = append(errs, err)
		}
	}
	if l.usage != nil {
		if err := l.usage.Close(); err != nil {
			l.logger.Error("error closing usage repository", "err", err)
			errs = append(errs, err)
		}
	}
	if l.backend != nil {
		if err := l.backend.Close(); err != nil {
			l.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
