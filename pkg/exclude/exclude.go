// Package exclude decides which keys a target must never see.
//
// Every target evaluates the union of three rule sets: Builtin (applied to
// all targets), the target's reserved namespace (for example CONVEX_*), and
// the user's configured patterns. The union is built per call so no rule set
// is ever mutated at runtime.
package exclude

import (
	"github.com/ethan-huo/env-tool/internal/matcher"
	"github.com/ethan-huo/env-tool/pkg/errors"
)

// BuiltinPatterns are excluded from every target. DOTENV_ keys carry the
// local file's decryption material and never leave the machine.
var BuiltinPatterns = []string{"DOTENV_*"}

// Builtin is the compiled form of BuiltinPatterns.
var Builtin = MustParse(BuiltinPatterns...)

// Rule is a single compiled exclusion pattern.
type Rule struct {
	m *matcher.Matcher
}

// Match reports whether the rule excludes key.
func (r Rule) Match(key string) bool {
	return r.m != nil && r.m.Match(key)
}

// String returns the pattern the rule was compiled from.
func (r Rule) String() string {
	if r.m == nil {
		return ""
	}
	return r.m.Pattern()
}

// Rules is an ordered set of exclusion rules.
type Rules []Rule

// Parse compiles patterns into Rules.
func Parse(patterns ...string) (Rules, error) {
	rules := make(Rules, 0, len(patterns))
	for _, p := range patterns {
		m, err := matcher.New(p)
		if err != nil {
			return nil, errors.NewValidationError("exclude", p, err.Error())
		}
		rules = append(rules, Rule{m: m})
	}
	return rules, nil
}

// MustParse is like Parse but panics on error.
func MustParse(patterns ...string) Rules {
	rules, err := Parse(patterns...)
	if err != nil {
		panic(err)
	}
	return rules
}

// Match reports whether any rule excludes key.
func (rs Rules) Match(key string) bool {
	for _, r := range rs {
		if r.Match(key) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns in order.
func (rs Rules) Patterns() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

// Matches reports whether key is excluded by rules.
func Matches(key string, rules Rules) bool {
	return rules.Match(key)
}

// Merge concatenates rule sets, dropping duplicate patterns.
func Merge(sets ...Rules) Rules {
	seen := make(map[string]bool)
	merged := make(Rules, 0)
	for _, set := range sets {
		for _, r := range set {
			p := r.String()
			if seen[p] {
				continue
			}
			seen[p] = true
			merged = append(merged, r)
		}
	}
	return merged
}

// ForTarget returns the effective rules for a target: Builtin, then the
// target's reserved rules, then the user's.
func ForTarget(reserved, user Rules) Rules {
	return Merge(Builtin, reserved, user)
}

// Filter splits keys into kept and excluded, preserving order.
func Filter(keys []string, rules Rules) (kept, excluded []string) {
	for _, k := range keys {
		if rules.Match(k) {
			excluded = append(excluded, k)
			continue
		}
		kept = append(kept, k)
	}
	return kept, excluded
}
