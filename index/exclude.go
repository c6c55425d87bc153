package index

import "strings"

// Excluded reports whether path matches any of the exclusion patterns.
//
// A pattern containing exactly one '*' matches paths that start with the text
// before the star and end with the text after it, with the two parts not
// overlapping. Any other pattern matches when it appears verbatim anywhere in
// the path; a '*' in such a pattern is a literal character.
func Excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchExclude(path, pattern) {
			return true
		}
	}
	return false
}

func matchExclude(path, pattern string) bool {
	if strings.Count(pattern, "*") == 1 {
		prefix, suffix, _ := strings.Cut(pattern, "*")
		return len(path) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(path, prefix) &&
			strings.HasSuffix(path, suffix)
	}
	return strings.Contains(path, pattern)
}
