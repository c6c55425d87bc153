package plugins

import (
	"context"

	"github.com/poiesic/launchpad/core"
)

// Plugin answers queries with the same result contract as application and file search.
type Plugin interface {
	// Name identifies the plugin. It is also the plugin's result category.
	Name() string
	Version() string
	Description() string

	// CanHandle reports whether Search should be called for query.
	CanHandle(query string) bool

	// Search returns results for query. Errors are logged by the host and
	// contribute no results.
	Search(ctx context.Context, query string) ([]core.SearchResult, error)

	// Execute runs plugin-specific follow-up after one of its results was chosen.
	Execute(ctx context.Context, result core.SearchResult) error
}

// Initializer is implemented by plugins that need setup when registered.
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Shutdowner is implemented by plugins that hold resources.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}
