package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionRepository_AddAndRecent(t *testing.T) {
	_, selections, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	for i, title := range []string{"Calculator", "Terminal", "Editor"} {
		added, err := selections.AddSelection(ctx, &core.Selection{
			Query:      title[:3],
			Title:      title,
			Category:   "application",
			Action:     "execute_application",
			SelectedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		assert.NotZero(t, added.Id)
	}

	recent, err := selections.RecentSelections(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Editor", recent[0].Title)
	assert.Equal(t, "Terminal", recent[1].Title)
}

func TestSelectionRepository_DefaultsTimestamp(t *testing.T) {
	_, selections, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	added, err := selections.AddSelection(context.Background(), &core.Selection{Query: "calc", Title: "Calculator"})
	require.NoError(t, err)
	assert.False(t, added.SelectedAt.IsZero())
}

func TestSelectionRepository_InvalidLimit(t *testing.T) {
	_, selections, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = selections.RecentSelections(context.Background(), 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestSelectionRepository_Empty(t *testing.T) {
	_, selections, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	recent, err := selections.RecentSelections(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
