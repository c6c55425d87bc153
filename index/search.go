package index

import (
	"time"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/scoring"
)

// FileResultLimit bounds the number of file results a single search returns.
const FileResultLimit = 20

// SearchApplications scores every indexed application against query and returns
// the matches ordered by descending score. Entries that match neither by name
// nor by keyword are omitted.
func (s *Store) SearchApplications(query string, now time.Time) []core.SearchResult {
	query = core.NormalizeKey(query)
	idx := s.apps.Load()

	var results []core.SearchResult
	for i := range idx.entries {
		entry := &idx.entries[i]
		score, ok := scoring.AppMatchScore(entry, query, now)
		if !ok {
			continue
		}
		results = append(results, entry.ToSearchResult(score))
	}

	core.SortByScore(results)
	return results
}

// SearchFiles scores every indexed file name against query and returns at most
// FileResultLimit matches ordered by descending score.
func (s *Store) SearchFiles(query string) []core.SearchResult {
	query = core.NormalizeKey(query)
	idx := s.files.Load()

	var results []core.SearchResult
	for i := range idx.entries {
		entry := &idx.entries[i]
		score, ok := scoring.FileMatchScore(entry.Key(), query)
		if !ok {
			continue
		}
		results = append(results, entry.ToSearchResult(score))
	}

	core.SortByScore(results)
	if len(results) > FileResultLimit {
		results = results[:FileResultLimit]
	}
	return results
}
