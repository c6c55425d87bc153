package index

import "time"

// Stats summarizes the current contents of a Store.
type Stats struct {
	Applications int
	Files        int
	LastRebuild  time.Time // Zero if never rebuilt
	Stale        bool
}

// Stats reports index sizes and freshness as of now.
func (s *Store) Stats(now time.Time) Stats {
	last, _ := s.LastRebuild()
	return Stats{
		Applications: len(s.apps.Load().entries),
		Files:        len(s.files.Load().entries),
		LastRebuild:  last,
		Stale:        s.IsStale(now),
	}
}
