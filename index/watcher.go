package index

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

const (
	defaultDebounce      = 300 * time.Millisecond
	defaultRebuildPerMin = 6
)

// Rebuilder is the part of a Builder the watcher drives.
type Rebuilder interface {
	Rebuild(ctx context.Context) RebuildReport
}

// Watcher rebuilds the index when files appear in, vanish from, or are renamed
// within the include roots. Bursts of events are debounced into one rebuild
// and rebuilds are rate limited.
type Watcher struct {
	builder  Rebuilder
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	debounce time.Duration
	logger   *slog.Logger

	rebuilds chan struct{}
	timerMu  sync.Mutex
	timer    *time.Timer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period after the last event before a rebuild.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithRebuildLimit caps rebuilds to perMinute, with the given burst.
func WithRebuildLimit(perMinute float64, burst int) WatcherOption {
	return func(w *Watcher) {
		if perMinute > 0 && burst > 0 {
			w.limiter = rate.NewLimiter(rate.Limit(perMinute/60), burst)
		}
	}
}

// WithWatcherLogger sets a custom logger.
// Default is slog.Default().
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
	}
}

// NewWatcher creates a watcher over the existing directories among roots.
// Roots that do not exist are skipped. Call Start to begin watching.
func NewWatcher(builder Rebuilder, roots []string, opts ...WatcherOption) (*Watcher, error) {
	if builder == nil {
		return nil, ErrBuilderRequired
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		builder:  builder,
		watcher:  fsw,
		limiter:  rate.NewLimiter(rate.Limit(defaultRebuildPerMin/60.0), 1),
		debounce: defaultDebounce,
		logger:   slog.Default(),
		rebuilds: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, root := range roots {
		dir, err := ExpandHome(root)
		if err != nil {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			w.logger.Debug("not watching missing include root", "root", dir)
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("failed to watch include root", "root", dir, "err", err)
		}
	}

	return w, nil
}

// Start begins processing file system events until ctx ends or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(2)
	go w.eventLoop(ctx)
	go w.rebuildLoop(ctx)
}

// Close stops the watcher and waits for its goroutines to exit.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerMu.Unlock()
	return err
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("include root changed", "path", event.Name, "op", event.Op.String())
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("include root watcher error", "err", err)
		}
	}
}

// schedule restarts the debounce timer; when it fires a rebuild is queued.
func (w *Watcher) schedule() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.rebuilds <- struct{}{}:
		default:
			// A rebuild is already queued.
		}
	})
}

func (w *Watcher) rebuildLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.rebuilds:
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			w.builder.Rebuild(ctx)
		}
	}
}
