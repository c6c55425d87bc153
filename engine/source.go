package engine

import (
	"context"
	"time"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/index"
)

// Source produces scored candidates for a query.
type Source interface {
	Search(ctx context.Context, query string) ([]core.SearchResult, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, query string) ([]core.SearchResult, error)

// Search calls f.
func (f SourceFunc) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	return f(ctx, query)
}

// ApplicationSource searches the application index of store.
func ApplicationSource(store *index.Store, now func() time.Time) Source {
	if now == nil {
		now = time.Now
	}
	return SourceFunc(func(_ context.Context, query string) ([]core.SearchResult, error) {
		return store.SearchApplications(query, now()), nil
	})
}

// FileSource searches the file index of store.
func FileSource(store *index.Store) Source {
	return SourceFunc(func(_ context.Context, query string) ([]core.SearchResult, error) {
		return store.SearchFiles(query), nil
	})
}
