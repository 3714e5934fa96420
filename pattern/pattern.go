// Package pattern compiles wildcard path patterns and selects the highest
// priority rule matching a path.
//
// Wildcard semantics: "*" matches within exactly one dot-separated segment
// (it never crosses a dot), "**" as a full segment matches zero or more
// whole segments including their dots. Matching is anchored over the whole
// path, so a pattern with no wildcards is an exact match.
package pattern

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/motamman/signalk-units-preference-sub000/errors"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// compiledCache memoizes compiled patterns. Pattern sets are small and
// long-lived, so entries are never evicted.
var compiledCache sync.Map // pattern string -> *regexp.Regexp

// Compile translates a wildcard path pattern into an anchored regexp.
func Compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := compiledCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	if strings.TrimSpace(pattern) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "pattern", "Compile", "empty pattern")
	}

	var b strings.Builder
	b.WriteString("^")

	segments := strings.Split(pattern, ".")
	needDot := false
	for i, seg := range segments {
		if seg == "**" {
			last := i == len(segments)-1
			switch {
			case last && !needDot:
				// The whole pattern (or its remainder from the start)
				// is "**": any path.
				b.WriteString(`[^.]+(?:\.[^.]+)*`)
			case last && needDot:
				// Trailing "a.**": zero or more extra segments.
				b.WriteString(`(?:\.[^.]+)*`)
			case needDot:
				// Interior "a.**.b": the joining dot collapses when
				// "**" matches zero segments.
				b.WriteString(`\.(?:[^.]+\.)*`)
				needDot = false
				continue
			default:
				// Leading "**.b".
				b.WriteString(`(?:[^.]+\.)*`)
				needDot = false
				continue
			}
			needDot = true
			continue
		}

		if needDot {
			b.WriteString(`\.`)
		}
		b.WriteString(segmentRegex(seg))
		needDot = true
	}

	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, errors.Wrap(err, "pattern", "Compile", "regexp compile")
	}
	compiledCache.Store(pattern, re)
	return re, nil
}

// segmentRegex translates one pattern segment. A bare "*" requires a
// non-empty segment; "*" mixed with literals matches any run of non-dot
// characters in its place.
func segmentRegex(seg string) string {
	if seg == "*" {
		return `[^.]+`
	}
	var b strings.Builder
	for _, part := range strings.Split(seg, "*") {
		if b.Len() > 0 {
			b.WriteString(`[^.]*`)
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	return b.String()
}

// Matches reports whether path matches the wildcard pattern. Uncompilable
// patterns never match.
func Matches(pattern, path string) bool {
	re, err := Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(path)
}

// FindMatch returns the matching rule with the highest priority, preserving
// original order among equal priorities. The second return is false when no
// rule matches.
func FindMatch(path string, rules []types.PathPatternRule) (types.PathPatternRule, bool) {
	if len(rules) == 0 {
		return types.PathPatternRule{}, false
	}

	ordered := make([]types.PathPatternRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	for _, rule := range ordered {
		if Matches(rule.Pattern, path) {
			return rule, true
		}
	}
	return types.PathPatternRule{}, false
}
