package filesystem

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are skipped unless Options.Exclude is set.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	"__pycache__",
	".venv",
}

// excluded reports whether rel (slash-separated, relative to the scan root)
// matches any pattern. Patterns are tried against the full relative path and
// against the base name.
func excluded(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, p := range patterns {
		if ok, err := doublestar.PathMatch(p, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.PathMatch(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// ValidatePatterns reports the first malformed exclude pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return &PatternError{Pattern: p}
		}
	}
	return nil
}

// PatternError is returned for a malformed exclude pattern.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string { return "invalid exclude pattern: " + e.Pattern }
