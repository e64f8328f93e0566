// Package exclude compiles exclusion globs into a matcher applied to paths
// relative to a template root.
//
// A path is excluded when any of its components matches a pattern (so
// "dist" drops a whole subtree and "*.log" drops log files at any depth)
// or when the full slash-separated path matches (so "docs/**/*.pdf"
// works). Patterns use doublestar syntax.
package exclude

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/bmatcuk/doublestar/v4"
)

// GitDir is excluded at the template root regardless of patterns
const GitDir = ".git"

// Matcher tests relative paths against a compiled pattern list
type Matcher struct {
	patterns []string
}

// Compile validates every pattern. An invalid pattern fails the whole
// build, naming the pattern.
func Compile(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.TrimSuffix(filepath.ToSlash(p), "/")
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf(errors.ErrInvalidExcludePattern, "invalid exclude pattern %q", p).
				WithDetail("pattern", p)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Patterns returns the compiled patterns
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// Match reports whether rel, a path relative to the template root, is
// excluded by the patterns. It does not consider the .git rule.
func (m *Matcher) Match(rel string) bool {
	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." || rel == "" {
		return false
	}

	components := strings.Split(rel, "/")
	for _, p := range m.patterns {
		for _, c := range components {
			if ok, _ := doublestar.Match(p, c); ok {
				return true
			}
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// IsGitDir reports whether rel is the top-level .git entry
func IsGitDir(rel string) bool {
	return path.Clean(filepath.ToSlash(rel)) == GitDir
}

// Excluded combines the .git rule with the patterns
func (m *Matcher) Excluded(rel string) bool {
	return IsGitDir(rel) || m.Match(rel)
}
