// Package timestamp provides Unix timestamp helpers for the date conversion
// path. The canonical interchange format is int64 milliseconds since the Unix
// epoch (UTC); zero means "not set".
package timestamp

import (
	"time"
)

// millisThreshold separates epoch seconds from epoch milliseconds when only
// a bare number is available: values above 1e12 (year 2001 expressed in
// milliseconds) are taken as milliseconds.
const millisThreshold = 1e12

// Now returns the current time as Unix milliseconds.
func Now() int64 {
	return time.Now().UnixMilli()
}

// FromEpoch converts a numeric epoch value to time.Time. When millis is
// true the value is epoch milliseconds; otherwise epoch seconds, with
// fractional seconds preserved.
func FromEpoch(v float64, millis bool) time.Time {
	if millis {
		return time.UnixMilli(int64(v)).UTC()
	}
	sec := int64(v)
	nsec := int64((v - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

// GuessEpoch converts a bare numeric epoch of unknown scale, assuming
// milliseconds above the year-2001 threshold and seconds below it.
func GuessEpoch(v float64) time.Time {
	return FromEpoch(v, v > millisThreshold)
}

// Format renders Unix milliseconds as an RFC 3339 string, empty for 0.
func Format(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
