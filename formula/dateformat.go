package formula

import (
	"strings"
	"time"

	"github.com/motamman/signalk-units-preference-sub000/errors"
)

// instantLayouts are the ISO 8601 shapes accepted for date input, most
// specific first.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseInstant parses an ISO 8601 instant string. Unparseable input is a
// DateFormatError; it never silently defaults to the current time.
func ParseInstant(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, &errors.DateFormatError{Input: s, Reason: "empty instant"}
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &errors.DateFormatError{Input: s, Reason: "not an ISO 8601 instant"}
}

// LocationFor resolves a rendering location: a named IANA timezone if given,
// otherwise local or UTC depending on useLocal. An unknown zone name is a
// DateFormatError.
func LocationFor(zone string, useLocal bool) (*time.Location, error) {
	if zone != "" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return nil, &errors.DateFormatError{Input: zone, Reason: "unknown timezone"}
		}
		return loc, nil
	}
	if useLocal {
		return time.Local, nil
	}
	return time.UTC, nil
}

// patternTokens maps display-pattern tokens to Go reference-layout fragments.
// Longest tokens first so the translator is greedy.
var patternTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"yyyy", "2006"},
	{"SSS", "000"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"yy", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"dd", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"a", "PM"},
	// Zone designator: renders "Z" in UTC and the numeric offset elsewhere,
	// so a local-time rendering is never mislabeled as UTC.
	{"Z", "Z07:00"},
}

// translatePattern converts a display pattern like "DD/MM/YYYY HH:mm:ss" to a
// Go time layout. Unrecognized runes pass through as literals.
func translatePattern(pattern string) string {
	var b strings.Builder
	i := 0
	for i < len(pattern) {
		matched := false
		for _, pt := range patternTokens {
			if strings.HasPrefix(pattern[i:], pt.token) {
				b.WriteString(pt.layout)
				i += len(pt.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}

// FormatInstant renders t with the given display pattern in the given
// location. An empty pattern is a DateFormatError; callers that want the
// canonical form should pass an RFC 3339 pattern explicitly.
func FormatInstant(t time.Time, pattern string, loc *time.Location) (string, error) {
	if strings.TrimSpace(pattern) == "" {
		return "", &errors.DateFormatError{Input: t, Pattern: pattern, Reason: "empty pattern"}
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(translatePattern(pattern)), nil
}
