package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/poiesic/launchpad/core"
)

const (
	appBaseScore   = 0.5
	fileBaseScore  = 0.3
	exactBonus     = 0.4
	prefixBonus    = 0.3
	substringBonus = 0.2

	// keywordScore replaces the whole app score when only a keyword matches.
	keywordScore = 0.6

	usageBonusPerUse = 0.01
	maxUsageBonus    = 0.2
	recentUseBonus   = 0.1
	recentUseWindow  = 24 * time.Hour
)

// MatchKind describes how a name matched a query.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchSubstring
	MatchPrefix
	MatchExact
)

// ClassifyName reports how the normalized name matches the normalized query.
func ClassifyName(name, query string) MatchKind {
	switch {
	case name == query:
		return MatchExact
	case strings.HasPrefix(name, query):
		return MatchPrefix
	case strings.Contains(name, query):
		return MatchSubstring
	default:
		return MatchNone
	}
}

func nameBonus(kind MatchKind) float64 {
	switch kind {
	case MatchExact:
		return exactBonus
	case MatchPrefix:
		return prefixBonus
	case MatchSubstring:
		return substringBonus
	default:
		return 0
	}
}

// AppMatchScore scores an application against a query already normalized with
// core.NormalizeKey. The second return value is false when neither the name nor
// any keyword matches; such entries are excluded from results.
func AppMatchScore(entry *core.AppEntry, query string, now time.Time) (float64, bool) {
	kind := ClassifyName(entry.Key(), query)
	if kind == MatchNone {
		if keywordMatches(entry.Keywords, query) {
			return keywordScore, true
		}
		return 0, false
	}

	score := appBaseScore + nameBonus(kind)
	score += math.Min(float64(entry.UsageCount)*usageBonusPerUse, maxUsageBonus)
	if usedWithin(entry.LastUsed, now, recentUseWindow) {
		score += recentUseBonus
	}
	return math.Min(score, 1.0), true
}

// FileMatchScore scores a normalized file name against a normalized query.
func FileMatchScore(name, query string) (float64, bool) {
	kind := ClassifyName(name, query)
	if kind == MatchNone {
		return 0, false
	}
	return math.Min(fileBaseScore+nameBonus(kind), 1.0), true
}

// AppBaseScore is the score of an application rendered outside query matching,
// such as a most-used listing: 0.5, plus 0.1 per use up to 0.5, plus 0.3 when
// used within the last day, 0.2 within a week, 0.1 within 30 days.
// The result is not clamped; SearchResult construction clamps it.
func AppBaseScore(entry *core.AppEntry, now time.Time) float64 {
	usage := math.Min(float64(entry.UsageCount)*0.1, 0.5)

	var recency float64
	if !entry.LastUsed.IsZero() {
		elapsed := now.Sub(entry.LastUsed)
		if elapsed < 0 {
			elapsed = 0
		}
		days := int(elapsed / (24 * time.Hour))
		switch {
		case days == 0:
			recency = 0.3
		case days < 7:
			recency = 0.2
		case days < 30:
			recency = 0.1
		}
	}

	return 0.5 + usage + recency
}

func keywordMatches(keywords []string, query string) bool {
	for _, k := range keywords {
		if strings.Contains(core.NormalizeKey(k), query) {
			return true
		}
	}
	return false
}

func usedWithin(lastUsed, now time.Time, window time.Duration) bool {
	if lastUsed.IsZero() || lastUsed.After(now) {
		return false
	}
	return now.Sub(lastUsed) < window
}
