package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDurationFixedShapes(t *testing.T) {
	tests := []struct {
		name    string
		fn      string
		seconds float64
		want    string
	}{
		{"HMS", "formatDurationHMS", 3725, "01:02:05"},
		{"HMS folds days into hours", "formatDurationHMS", 90000, "25:00:00"},
		{"HMS zero", "formatDurationHMS", 0, "00:00:00"},
		{"HMSms", "formatDurationHMSms", 3725.25, "01:02:05.250"},
		{"DHMS", "formatDurationDHMS", 180245, "02:02:04:05"},
		{"DHMS under a day", "formatDurationDHMS", 3725, "00:01:02:05"},
		{"MS", "formatDurationMS", 945, "15:45"},
		{"MS folds hours into minutes", "formatDurationMS", 3725, "62:05"},
		{"MSms", "formatDurationMSms", 65.5, "01:05.500"},
		{"negative HMS", "formatDurationHMS", -3725, "-01:02:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, durationFunctions[tt.fn](tt.seconds))
		})
	}
}

func TestFormatDurationCompact(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{3725, "1h 2m"},
		{183600, "2d 3h"},
		{945, "15m 45s"},
		{5, "5s"},
		{0, "0s"},
		{86405, "1d 5s"},
		{-3725, "-1h 2m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDurationCompact(tt.seconds), "seconds %v", tt.seconds)
	}
}

func TestFormatDurationVerbose(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{3725, "1 hour, 2 minutes, 5 seconds"},
		{90061, "1 day, 1 hour, 1 minute, 1 second"},
		{120, "2 minutes"},
		{0, "0 seconds"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDurationVerbose(tt.seconds), "seconds %v", tt.seconds)
	}
}
