package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/storage"
)

// AppProvider lists the applications installed on the system.
type AppProvider interface {
	InstalledApplications(ctx context.Context) ([]core.AppEntry, error)
}

// ScanSettings controls the file pass of a rebuild.
type ScanSettings struct {
	Roots   []string // Directories scanned one level deep; "~" is expanded
	Exclude []string // Patterns matched against full paths, see Excluded
}

// RebuildReport describes the outcome of one rebuild.
type RebuildReport struct {
	StartedAt    time.Time
	Duration     time.Duration
	Applications int   // Applications indexed after the rebuild
	Files        int   // Files indexed after the rebuild
	AppErr       error // Non-nil if the application pass failed
	FileErr      error // Non-nil if any include root could not be read
}

// Builder populates a Store from the platform provider and the file system.
type Builder struct {
	store              *Store
	provider           AppProvider
	usage              storage.UsageRepository
	settings           func() ScanSettings
	scanPool           *ants.Pool
	clearAppsOnFailure bool
	retryAttempts      int
	retryDelay         time.Duration
	now                func() time.Time
	logger             *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithUsageRepository persists usage updates and merges persisted counters
// into applications on every rebuild.
func WithUsageRepository(repo storage.UsageRepository) Option {
	return func(b *Builder) error {
		b.usage = repo
		return nil
	}
}

// WithScanSettings sets the function consulted for include roots and exclude
// patterns at the start of every file pass. Default scans nothing.
func WithScanSettings(fn func() ScanSettings) Option {
	return func(b *Builder) error {
		if fn != nil {
			b.settings = fn
		}
		return nil
	}
}

// WithClearAppsOnFailure makes a failed application pass swap in an empty
// application index. By default the previous index is kept.
func WithClearAppsOnFailure(clear bool) Option {
	return func(b *Builder) error {
		b.clearAppsOnFailure = clear
		return nil
	}
}

// WithProviderRetry retries the application provider up to attempts times,
// doubling baseDelay between tries. Default is a single attempt.
func WithProviderRetry(attempts int, baseDelay time.Duration) Option {
	return func(b *Builder) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		b.retryAttempts = attempts
		b.retryDelay = baseDelay
		return nil
	}
}

// WithPoolSize sets the number of include roots scanned concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if b.scanPool != nil {
			b.scanPool.Release()
		}
		b.scanPool = pool
		return nil
	}
}

// WithClock sets the time source used for rebuild and usage timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) error {
		if now != nil {
			b.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a builder that owns store.
func NewBuilder(store *Store, provider AppProvider, opts ...Option) (*Builder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	scanPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		store:         store,
		provider:      provider,
		settings:      func() ScanSettings { return ScanSettings{} },
		scanPool:      scanPool,
		retryAttempts: 1,
		now:           time.Now,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// Store returns the store populated by this builder.
func (b *Builder) Store() *Store {
	return b.store
}

// Release frees the scan worker pool.
func (b *Builder) Release() {
	if b.scanPool != nil {
		b.scanPool.Release()
	}
}

// Rebuild runs the application and file passes concurrently and swaps each
// resulting index into the store. A failing pass is logged and reported but
// never aborts the other one, and the rebuild's start time is recorded as the
// last rebuild instant regardless of failures.
func (b *Builder) Rebuild(ctx context.Context) RebuildReport {
	report := RebuildReport{StartedAt: b.now()}
	b.logger.Info("index rebuild started")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		report.Applications, report.AppErr = b.rebuildApplications(ctx)
	}()
	go func() {
		defer wg.Done()
		report.Files, report.FileErr = b.rebuildFiles(ctx)
	}()
	wg.Wait()

	b.store.MarkRebuilt(report.StartedAt)
	report.Duration = time.Since(report.StartedAt)

	b.logger.Info("index rebuild finished",
		"applications", report.Applications,
		"files", report.Files,
		"duration", report.Duration,
		"appFailed", report.AppErr != nil,
		"fileFailed", report.FileErr != nil)
	return report
}

// RecordUsage increments the usage counter of the named application in the
// store and, when configured, in the usage repository. Returns the updated
// entry, or false if the application is not indexed.
func (b *Builder) RecordUsage(ctx context.Context, name string) (core.AppEntry, bool) {
	at := b.now()
	entry, ok := b.store.RecordUsage(name, at)
	if !ok {
		b.logger.Debug("usage for unknown application ignored", "name", name)
		return entry, false
	}

	if b.usage != nil {
		if _, err := b.usage.IncrementUsage(ctx, entry.Key(), at); err != nil {
			b.logger.Warn("failed to persist usage", "name", name, "err", err)
		}
	}
	return entry, true
}

func (b *Builder) rebuildApplications(ctx context.Context) (int, error) {
	var apps []core.AppEntry
	err := retryWithBackoff(ctx, b.logger, b.retryAttempts, b.retryDelay, func() error {
		var listErr error
		apps, listErr = b.provider.InstalledApplications(ctx)
		return listErr
	})
	if err != nil {
		err = fmt.Errorf("%w: %w: %w", ErrBuild, ErrPlatform, err)
		b.logger.Error("application scan failed", "err", err)
		if b.clearAppsOnFailure {
			return b.store.ReplaceApplications(nil), err
		}
		return len(b.store.apps.Load().entries), err
	}

	apps = b.validApplications(apps)
	b.mergePersistedUsage(ctx, apps)
	n := b.store.ReplaceApplications(apps)
	b.logger.Debug("application index replaced", "count", n)
	return n, nil
}

// validApplications drops provider entries that cannot be indexed or launched.
func (b *Builder) validApplications(apps []core.AppEntry) []core.AppEntry {
	valid := make([]core.AppEntry, 0, len(apps))
	for i := range apps {
		if err := core.ValidateAppEntry(&apps[i]); err != nil {
			b.logger.Debug("skipping invalid application", "name", apps[i].Name, "err", err)
			continue
		}
		valid = append(valid, apps[i])
	}
	return valid
}

func (b *Builder) mergePersistedUsage(ctx context.Context, apps []core.AppEntry) {
	if b.usage == nil || len(apps) == 0 {
		return
	}

	keys := make([]string, len(apps))
	for i := range apps {
		keys[i] = apps[i].Key()
	}
	records, err := b.usage.GetUsage(ctx, keys...)
	if err != nil {
		b.logger.Warn("failed to load persisted usage", "err", err)
		return
	}

	for i := range apps {
		record, ok := records[keys[i]]
		if !ok {
			continue
		}
		if record.Count > apps[i].UsageCount {
			apps[i].UsageCount = record.Count
		}
		if record.LastUsed.After(apps[i].LastUsed) {
			apps[i].LastUsed = record.LastUsed
		}
	}
}

func (b *Builder) rebuildFiles(ctx context.Context) (int, error) {
	settings := b.settings()

	scanned := make([][]core.FileEntry, len(settings.Roots))
	scanErrs := make([]error, len(settings.Roots))

	var wg sync.WaitGroup
	for i, root := range settings.Roots {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			scanned[i], scanErrs[i] = b.scanRoot(ctx, root, settings.Exclude)
		}
		if err := b.scanPool.Submit(task); err != nil {
			b.logger.Debug("scan pool unavailable, scanning inline", "root", root, "err", err)
			task()
		}
	}
	wg.Wait()

	var files []core.FileEntry
	for _, entries := range scanned {
		files = append(files, entries...)
	}

	n := b.store.ReplaceFiles(files)
	b.logger.Debug("file index replaced", "count", n, "roots", len(settings.Roots))

	if err := errors.Join(scanErrs...); err != nil {
		return n, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	return n, nil
}

// scanRoot lists the regular files directly inside root. A missing root
// yields no files and no error.
func (b *Builder) scanRoot(ctx context.Context, root string, exclude []string) ([]core.FileEntry, error) {
	dir, err := ExpandHome(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileSystem, root, err)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.logger.Debug("include root does not exist", "root", dir)
			return nil, nil
		}
		b.logger.Warn("failed to read include root", "root", dir, "err", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrFileSystem, dir, err)
	}

	var files []core.FileEntry
	for _, de := range dirEntries {
		if ctx.Err() != nil {
			return files, ctx.Err()
		}

		path := filepath.Join(dir, de.Name())
		if Excluded(path, exclude) {
			continue
		}

		// Stat follows symlinks so links to regular files are admitted.
		info, err := os.Stat(path)
		if err != nil {
			b.logger.Debug("skipping unreadable entry", "path", path, "err", err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, core.NewFileEntry(path, info))
	}
	return files, nil
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}
