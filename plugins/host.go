package plugins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/launchpad/core"
)

// Built-in plugin names as they appear in configuration.
const (
	BuiltinCalculator = "calculator"
	BuiltinTranslator = "translator"
)

// Host owns the registered plugins and fans queries out to them.
type Host struct {
	mu      sync.RWMutex
	plugins []Plugin
	pool    *ants.Pool
	logger  *slog.Logger
}

// HostOption configures a Host.
type HostOption func(*Host) error

// WithPoolSize sets the number of plugins searched concurrently.
// Default is runtime.NumCPU(), with a minimum of 2.
func WithPoolSize(size int) HostOption {
	return func(h *Host) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if h.pool != nil {
			h.pool.Release()
		}
		h.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) HostOption {
	return func(h *Host) error {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
		return nil
	}
}

// NewHost creates a host with no plugins registered.
func NewHost(opts ...HostOption) (*Host, error) {
	pool, err := ants.NewPool(max(runtime.NumCPU(), 2))
	if err != nil {
		return nil, err
	}

	h := &Host{
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(h); optErr != nil {
			h.pool.Release()
			return nil, optErr
		}
	}
	return h, nil
}

// Register initializes p if it implements Initializer and adds it to the host.
// Plugin names are unique, compared case-insensitively.
func (h *Host) Register(ctx context.Context, p Plugin) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, existing := range h.plugins {
		if strings.EqualFold(existing.Name(), p.Name()) {
			return fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name())
		}
	}

	if initializer, ok := p.(Initializer); ok {
		if err := initializer.Initialize(ctx); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInitializationFailed, p.Name(), err)
		}
	}

	h.plugins = append(h.plugins, p)
	h.logger.Info("registered plugin", "name", p.Name(), "version", p.Version())
	return nil
}

// LoadBuiltins registers the built-in plugins named in enabled, matched
// case-insensitively. Unknown names are logged and skipped.
func (h *Host) LoadBuiltins(ctx context.Context, enabled []string, translator TranslatorConfig) error {
	for _, name := range enabled {
		var p Plugin
		switch strings.ToLower(strings.TrimSpace(name)) {
		case BuiltinCalculator:
			p = NewCalculator(WithCalculatorLogger(h.logger))
		case BuiltinTranslator:
			t, err := NewTranslator(translator, WithTranslatorLogger(h.logger))
			if err != nil {
				return err
			}
			p = t
		default:
			h.logger.Warn("skipping unknown built-in plugin", "name", name, "err", ErrUnknownPlugin)
			continue
		}
		if err := h.Register(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Plugins returns the registered plugins in registration order.
func (h *Host) Plugins() []Plugin {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Plugin(nil), h.plugins...)
}

// Search implements a search source over all plugins; see SearchAll.
func (h *Host) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	return h.SearchAll(ctx, query), nil
}

// SearchAll queries every plugin that can handle query concurrently and
// concatenates their results in registration order. A failing or panicking
// plugin is logged and contributes nothing.
func (h *Host) SearchAll(ctx context.Context, query string) []core.SearchResult {
	var handlers []Plugin
	for _, p := range h.Plugins() {
		if p.CanHandle(query) {
			handlers = append(handlers, p)
		}
	}
	if len(handlers) == 0 {
		return nil
	}

	perPlugin := make([][]core.SearchResult, len(handlers))
	var wg sync.WaitGroup
	for i, p := range handlers {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			perPlugin[i] = h.searchOne(ctx, p, query)
		}
		if err := h.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	var results []core.SearchResult
	for _, r := range perPlugin {
		results = append(results, r...)
	}
	return results
}

func (h *Host) searchOne(ctx context.Context, p Plugin, query string) (results []core.SearchResult) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("plugin search panicked", "plugin", p.Name(), "panic", r)
			results = nil
		}
	}()

	results, err := p.Search(ctx, query)
	if err != nil {
		h.logger.Warn("plugin search failed", "plugin", p.Name(), "err", err)
		return nil
	}
	return results
}

// Execute hands result to the plugin named pluginID.
func (h *Host) Execute(ctx context.Context, pluginID string, result core.SearchResult) error {
	for _, p := range h.Plugins() {
		if p.Name() == pluginID {
			return p.Execute(ctx, result)
		}
	}
	return fmt.Errorf("%w: %s", ErrPluginNotFound, pluginID)
}

// Close shuts down plugins implementing Shutdowner and releases the worker pool.
func (h *Host) Close(ctx context.Context) error {
	h.mu.Lock()
	plugins := h.plugins
	h.plugins = nil
	h.mu.Unlock()

	var errs []error
	for _, p := range plugins {
		if s, ok := p.(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			}
		}
	}
	h.pool.Release()
	return errors.Join(errs...)
}
