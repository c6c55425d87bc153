package scoring

import (
	"strings"

	"github.com/poiesic/launchpad/core"
	"github.com/sahilm/fuzzy"
)

// FuzzyScore computes an approximate-match score of query against title,
// normalized to [0, 1] by the score the query earns against itself. The second
// return value is false when the matcher rejects the pair.
func FuzzyScore(title, query string) (float64, bool) {
	query = strings.TrimSpace(query)
	if query == "" || title == "" {
		return 0, false
	}

	matches := fuzzy.Find(query, []string{title})
	if len(matches) == 0 {
		return 0, false
	}

	ceiling := selfScore(query)
	if ceiling <= 0 {
		ceiling = 100
	}
	return core.ClampScore(float64(matches[0].Score) / float64(ceiling)), true
}

func selfScore(query string) int {
	matches := fuzzy.Find(query, []string{query})
	if len(matches) == 0 {
		return 0
	}
	return matches[0].Score
}
