package storage

import (
	"context"
	"time"

	"github.com/poiesic/launchpad/core"
)

// Repository provides operations shared by all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	Close() error
}

// UsageRepository persists application usage counters across process restarts.
// Keys are normalized application names (core.NormalizeKey).
type UsageRepository interface {
	Repository

	// IncrementUsage adds one use of key at the given instant and returns the
	// updated record. A missing record is created with a count of one.
	IncrementUsage(ctx context.Context, key string, at time.Time) (core.UsageRecord, error)

	// GetUsage returns the records for the given keys. Missing keys are absent
	// from the map; no error is returned for them.
	GetUsage(ctx context.Context, keys ...string) (map[string]core.UsageRecord, error)

	// AllUsage returns every stored record ordered by descending count.
	AllUsage(ctx context.Context) ([]core.UsageRecord, error)
}

// SelectionRepository records which result the user picked for a query.
type SelectionRepository interface {
	Repository

	// AddSelection stores a selection. A zero SelectedAt is set to the current
	// time and the ID is derived from the selection contents.
	// Returns the selection with ID and timestamp populated.
	AddSelection(ctx context.Context, selection *core.Selection) (*core.Selection, error)

	// RecentSelections returns up to limit selections, most recent first.
	RecentSelections(ctx context.Context, limit int) ([]*core.Selection, error)
}
