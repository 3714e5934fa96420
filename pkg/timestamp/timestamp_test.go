package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZeroValues(t *testing.T) {
	assert.Equal(t, "", Format(0))
}

func TestFromEpoch(t *testing.T) {
	want := time.Date(2025, 10, 8, 14, 30, 45, 0, time.UTC)

	assert.True(t, FromEpoch(float64(want.Unix()), false).Equal(want))
	assert.True(t, FromEpoch(float64(want.UnixMilli()), true).Equal(want))

	// Fractional seconds survive.
	got := FromEpoch(float64(want.Unix())+0.5, false)
	assert.Equal(t, 500*time.Millisecond, got.Sub(want))
}

func TestGuessEpoch(t *testing.T) {
	want := time.Date(2025, 10, 8, 14, 30, 45, 0, time.UTC)

	assert.True(t, GuessEpoch(float64(want.Unix())).Equal(want), "seconds-scale guessed as seconds")
	assert.True(t, GuessEpoch(float64(want.UnixMilli())).Equal(want), "millis-scale guessed as millis")
}

func TestFormat(t *testing.T) {
	ms := time.Date(2025, 10, 8, 14, 30, 45, 0, time.UTC).UnixMilli()
	assert.Equal(t, "2025-10-08T14:30:45Z", Format(ms))
}
