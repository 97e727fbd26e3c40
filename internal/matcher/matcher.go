// Package matcher compiles env key patterns.
//
// A pattern is one of three kinds: an exact key ("API_URL"), a prefix with a
// single trailing wildcard ("VITE_*"), or a general glob using '*', '?' and
// '[...]' anywhere else ("*_SECRET"). Matching is always case-sensitive.
package matcher

import (
	"fmt"
	"path"
	"strings"
)

// Kind is the compiled form of a pattern.
type Kind int

const (
	// Exact matches a single key.
	Exact Kind = iota
	// Prefix matches every key starting with the pattern minus its trailing '*'.
	Prefix
	// Glob uses shell-style matching (*, ?, []).
	Glob
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	case Glob:
		return "glob"
	default:
		return "unknown"
	}
}

// Matcher matches keys against one compiled pattern.
type Matcher struct {
	pattern string
	kind    Kind
	prefix  string
}

// New compiles pattern. Empty patterns and malformed globs are rejected.
func New(pattern string) (*Matcher, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	m := &Matcher{pattern: pattern}
	switch {
	case !IsGlobPattern(pattern):
		m.kind = Exact
	case strings.HasSuffix(pattern, "*") && !IsGlobPattern(strings.TrimSuffix(pattern, "*")):
		m.kind = Prefix
		m.prefix = strings.TrimSuffix(pattern, "*")
	default:
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		m.kind = Glob
	}
	return m, nil
}

// MustNew is like New but panics on error. Used for built-in patterns.
func MustNew(pattern string) *Matcher {
	m, err := New(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether key matches the pattern.
func (m *Matcher) Match(key string) bool {
	switch m.kind {
	case Exact:
		return key == m.pattern
	case Prefix:
		return strings.HasPrefix(key, m.prefix)
	case Glob:
		ok, _ := path.Match(m.pattern, key)
		return ok
	default:
		return false
	}
}

// MatchAll returns the keys that match, in input order.
func (m *Matcher) MatchAll(keys ...string) []string {
	results := make([]string, 0)
	for _, key := range keys {
		if m.Match(key) {
			results = append(results, key)
		}
	}
	return results
}

// Pattern returns the original pattern string.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Kind returns the compiled kind.
func (m *Matcher) Kind() Kind {
	return m.kind
}

// IsGlobPattern checks if a string contains glob metacharacters.
func IsGlobPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]")
}
