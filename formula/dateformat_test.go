package formula

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motamman/signalk-units-preference-sub000/errors"
)

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339 utc", "2025-10-08T14:30:45Z", time.Date(2025, 10, 8, 14, 30, 45, 0, time.UTC)},
		{"rfc3339 millis", "2025-10-08T14:30:45.000Z", time.Date(2025, 10, 8, 14, 30, 45, 0, time.UTC)},
		{"rfc3339 offset", "2025-10-08T14:30:45+02:00", time.Date(2025, 10, 8, 14, 30, 45, 0, time.FixedZone("", 7200))},
		{"no zone", "2025-10-08T14:30:45", time.Date(2025, 10, 8, 14, 30, 45, 0, time.UTC)},
		{"date only", "2025-10-08", time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInstant(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseInstantErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date", "08/10/2025", "2025-13-45T99:99:99Z"} {
		_, err := ParseInstant(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, stderrors.Is(err, errors.ErrDateFormat))
	}
}

func TestFormatInstant(t *testing.T) {
	instant := time.Date(2025, 10, 8, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"slash date", "DD/MM/YYYY", "08/10/2025"},
		{"us date", "MM/DD/YYYY", "10/08/2025"},
		{"datetime", "YYYY-MM-DD HH:mm:ss", "2025-10-08 14:30:45"},
		{"lowercase tokens", "dd/mm/yyyy", "08/30/2025"},
		{"time only", "HH:mm", "14:30"},
		{"12h clock", "hh:mm a", "02:30 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatInstant(instant, tt.pattern, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The trailing Z of an RFC 3339 pattern is a zone designator, not a literal:
// in UTC it renders "Z", anywhere else the numeric offset, so a non-UTC
// rendering is never labeled as UTC.
func TestFormatInstantZoneDesignator(t *testing.T) {
	instant := time.Date(2025, 10, 8, 14, 30, 45, 0, time.UTC)
	pattern := "YYYY-MM-DDTHH:mm:ssZ"

	got, err := FormatInstant(instant, pattern, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-08T14:30:45Z", got)

	got, err = FormatInstant(instant, pattern, time.FixedZone("EDT", -4*3600))
	require.NoError(t, err)
	assert.Equal(t, "2025-10-08T10:30:45-04:00", got)
}

func TestFormatInstantInZone(t *testing.T) {
	instant := time.Date(2025, 10, 8, 14, 30, 45, 0, time.UTC)

	loc, err := LocationFor("America/New_York", false)
	require.NoError(t, err)

	got, err := FormatInstant(instant, "HH:mm", loc)
	require.NoError(t, err)
	assert.Equal(t, "10:30", got) // EDT is UTC-4 in October
}

func TestLocationForErrors(t *testing.T) {
	_, err := LocationFor("Not/AZone", false)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrDateFormat))
}

func TestFormatInstantEmptyPattern(t *testing.T) {
	_, err := FormatInstant(time.Now(), "", time.UTC)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrDateFormat))
}
