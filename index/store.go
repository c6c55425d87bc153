package index

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/launchpad/core"
)

// StaleAfter is how long an index stays fresh after a rebuild.
const StaleAfter = 24 * time.Hour

// appIndex is an immutable application snapshot. Entries are sorted by key.
type appIndex struct {
	entries []core.AppEntry
	byKey   map[string]int
}

// fileIndex is an immutable file snapshot. Entries are sorted by key.
type fileIndex struct {
	entries []core.FileEntry
	byKey   map[string]int
}

// Store holds the application and file indexes.
//
// Each index is an immutable snapshot behind an atomic pointer. Readers load the
// pointer and never lock; writers serialize per index kind and publish a new
// snapshot with a single swap, so a reader always sees either the old or the new
// collection in full.
type Store struct {
	apps        atomic.Pointer[appIndex]
	files       atomic.Pointer[fileIndex]
	lastRebuild atomic.Pointer[time.Time]

	appMu  sync.Mutex
	fileMu sync.Mutex
}

// NewStore creates a store with empty indexes that has never been rebuilt.
func NewStore() *Store {
	s := &Store{}
	s.apps.Store(&appIndex{byKey: map[string]int{}})
	s.files.Store(&fileIndex{byKey: map[string]int{}})
	return s
}

// Applications returns the current application entries ordered by key.
// The returned slice belongs to the caller.
func (s *Store) Applications() []core.AppEntry {
	return slices.Clone(s.apps.Load().entries)
}

// Files returns the current file entries ordered by key.
// The returned slice belongs to the caller.
func (s *Store) Files() []core.FileEntry {
	return slices.Clone(s.files.Load().entries)
}

// Application looks up an application by display name, case-insensitively.
func (s *Store) Application(name string) (core.AppEntry, bool) {
	idx := s.apps.Load()
	i, ok := idx.byKey[core.NormalizeKey(name)]
	if !ok {
		return core.AppEntry{}, false
	}
	return idx.entries[i].Clone(), true
}

// ReplaceApplications swaps in a new application index built from entries.
// Later entries with the same key replace earlier ones. Usage counters of apps
// already indexed are carried into the new index so they never go backwards.
// Returns the number of indexed applications.
func (s *Store) ReplaceApplications(entries []core.AppEntry) int {
	s.appMu.Lock()
	defer s.appMu.Unlock()

	prev := s.apps.Load()
	latest := make(map[string]core.AppEntry, len(entries))
	for _, e := range entries {
		e = e.Clone()
		if i, ok := prev.byKey[e.Key()]; ok {
			mergeUsage(&e, &prev.entries[i])
		}
		latest[e.Key()] = e
	}

	next := &appIndex{
		entries: make([]core.AppEntry, 0, len(latest)),
		byKey:   make(map[string]int, len(latest)),
	}
	for _, e := range latest {
		next.entries = append(next.entries, e)
	}
	slices.SortFunc(next.entries, func(a, b core.AppEntry) int {
		return strings.Compare(a.Key(), b.Key())
	})
	for i := range next.entries {
		next.byKey[next.entries[i].Key()] = i
	}

	s.apps.Store(next)
	return len(next.entries)
}

// ReplaceFiles swaps in a new file index built from entries.
// Later entries with the same lowercase name replace earlier ones.
// Returns the number of indexed files.
func (s *Store) ReplaceFiles(entries []core.FileEntry) int {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	latest := make(map[string]core.FileEntry, len(entries))
	for _, e := range entries {
		latest[e.Key()] = e
	}

	next := &fileIndex{
		entries: make([]core.FileEntry, 0, len(latest)),
		byKey:   make(map[string]int, len(latest)),
	}
	for _, e := range latest {
		next.entries = append(next.entries, e)
	}
	slices.SortFunc(next.entries, func(a, b core.FileEntry) int {
		return strings.Compare(a.Key(), b.Key())
	})
	for i := range next.entries {
		next.byKey[next.entries[i].Key()] = i
	}

	s.files.Store(next)
	return len(next.entries)
}

// RecordUsage increments the usage counter of the named application and sets
// its last-used instant. Other entries are untouched. Returns the updated entry,
// or false when no such application is indexed.
func (s *Store) RecordUsage(name string, at time.Time) (core.AppEntry, bool) {
	s.appMu.Lock()
	defer s.appMu.Unlock()

	prev := s.apps.Load()
	i, ok := prev.byKey[core.NormalizeKey(name)]
	if !ok {
		return core.AppEntry{}, false
	}

	// Positions are unchanged, so the key map is shared with the new snapshot.
	next := &appIndex{entries: slices.Clone(prev.entries), byKey: prev.byKey}
	next.entries[i].IncrementUsage(at)
	s.apps.Store(next)

	return next.entries[i].Clone(), true
}

// MarkRebuilt records at as the last rebuild instant.
func (s *Store) MarkRebuilt(at time.Time) {
	s.lastRebuild.Store(&at)
}

// LastRebuild returns the last rebuild instant, or false if the store was never rebuilt.
func (s *Store) LastRebuild() (time.Time, bool) {
	at := s.lastRebuild.Load()
	if at == nil {
		return time.Time{}, false
	}
	return *at, true
}

// IsStale reports whether no rebuild happened within StaleAfter of now.
func (s *Store) IsStale(now time.Time) bool {
	at, ok := s.LastRebuild()
	if !ok {
		return true
	}
	return now.Sub(at) >= StaleAfter
}

// mergeUsage keeps the larger counter and the later timestamp of two entries.
func mergeUsage(dst, other *core.AppEntry) {
	if other.UsageCount > dst.UsageCount {
		dst.UsageCount = other.UsageCount
	}
	if other.LastUsed.After(dst.LastUsed) {
		dst.LastUsed = other.LastUsed
	}
}
