package filtering

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// NameMatcher selects class names using glob patterns
type NameMatcher struct {
	patterns []string
	globs    []glob.Glob
}

// NewNameMatcher compiles the patterns. An empty pattern list matches every name.
func NewNameMatcher(patterns ...string) (*NameMatcher, error) {
	m := &NameMatcher{patterns: patterns}
	for _, pattern := range patterns {
		// filepath.Match rejects malformed character classes that glob accepts
		if _, err := filepath.Match(pattern, "test"); err != nil {
			return nil, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}

		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		m.globs = append(m.globs, compiled)
	}
	return m, nil
}

// Match reports whether name matches any pattern
func (m *NameMatcher) Match(name string) bool {
	if m == nil || len(m.globs) == 0 {
		return true
	}
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Filter returns the names that match, preserving order
func (m *NameMatcher) Filter(names []string) []string {
	if m == nil || len(m.globs) == 0 {
		return names
	}

	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if m.Match(name) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

// Patterns returns the source patterns
func (m *NameMatcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return m.patterns
}
