package engine

import (
	"log/slog"

	"github.com/poiesic/launchpad/core"
)

// SearchMonitor provides hooks to observe the search process.
// Hooks are called from the searching goroutine, in source order.
type SearchMonitor interface {
	Start(query string)
	SourceFinished(source string, results int, err error)
	AfterBoost(results []core.SearchResult)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) SourceFinished(_ string, _ int, _ error) {}
func (n *noopMonitor) AfterBoost(_ []core.SearchResult)       {}
func (n *noopMonitor) Finish(_ []core.SearchResult)           {}

// LogMonitor reports each search stage to a logger at debug level.
type LogMonitor struct {
	Logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

func (m *LogMonitor) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *LogMonitor) Start(query string) {
	m.logger().Debug("search started", "query", query)
}

func (m *LogMonitor) SourceFinished(source string, results int, err error) {
	if err != nil {
		m.logger().Debug("source failed", "source", source, "err", err)
		return
	}
	m.logger().Debug("source finished", "source", source, "results", results)
}

func (m *LogMonitor) AfterBoost(results []core.SearchResult) {
	for i := range results {
		m.logger().Debug("boosted", "title", results[i].Title, "score", results[i].Score)
	}
}

func (m *LogMonitor) Finish(results []core.SearchResult) {
	m.logger().Debug("search finished", "results", len(results))
}
