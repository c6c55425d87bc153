package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("nil uses defaults", func(t *testing.T) {
		s, err := NewStore(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), s.Snapshot())
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		_, err := NewStore(NewConfig(WithMaxResults(0)))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("snapshot detached from input", func(t *testing.T) {
		cfg := DefaultConfig()
		s, err := NewStore(cfg)
		require.NoError(t, err)

		cfg.Behavior.MaxResults = 99
		assert.Equal(t, 10, s.Snapshot().Behavior.MaxResults)
	})
}

func TestStore_Update(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)
	before := s.Snapshot()

	next, err := s.Update(func(c *Config) {
		c.Behavior.MaxResults = 20
		c.Search.EnableFileSearch = false
	})
	require.NoError(t, err)

	assert.Same(t, next, s.Snapshot())
	assert.Equal(t, 20, s.Snapshot().Behavior.MaxResults)
	assert.False(t, s.Snapshot().Search.EnableFileSearch)

	// Earlier snapshots are immutable.
	assert.Equal(t, 10, before.Behavior.MaxResults)
	assert.True(t, before.Search.EnableFileSearch)
}

func TestStore_UpdateInvalidKeepsSnapshot(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)
	before := s.Snapshot()

	_, err = s.Update(func(c *Config) { c.Behavior.MaxResults = 0 })
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Same(t, before, s.Snapshot())
}
