package config

import (
	"sync"
	"sync/atomic"
)

// Store holds the live configuration. Readers take a snapshot once per
// operation; writers replace the snapshot as a whole.
type Store struct {
	current atomic.Pointer[Config]
	mu      sync.Mutex
}

// NewStore validates cfg and makes a copy of it the current snapshot.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	snapshot := cfg.Clone()
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	s := &Store{}
	s.current.Store(snapshot)
	return s, nil
}

// Snapshot returns the current configuration. Callers must not modify it.
func (s *Store) Snapshot() *Config {
	return s.current.Load()
}

// Update applies fn to a copy of the current configuration and, if the
// result validates, makes it the current snapshot. On error the snapshot is
// unchanged.
func (s *Store) Update(fn func(*Config)) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Load().Clone()
	fn(next)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	s.current.Store(next)
	return next, nil
}
