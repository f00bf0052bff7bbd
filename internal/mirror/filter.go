package mirror

import "github.com/bmatcuk/doublestar/v4"

// MatchesAny returns true if the slash-separated path matches any of the
// given doublestar patterns. Malformed patterns never match.
func MatchesAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, p); err == nil && matched {
			return true
		}
	}
	return false
}

// selected applies the include list (empty means everything) and then the
// exclude list.
func selected(p string, include, exclude []string) bool {
	if len(include) > 0 && !MatchesAny(p, include) {
		return false
	}
	return !MatchesAny(p, exclude)
}
