package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mph-llm-experiments/fika/internal/clock"
)

func TestDaysSince_Floors(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	almost30 := now.Add(-time.Duration(29.9 * float64(clock.Day)))
	assert.Equal(t, 29, clock.DaysSince(almost30, now))
	assert.Equal(t, 30, clock.DaysSince(now.AddDate(0, 0, -30), now))
	assert.Equal(t, 0, clock.DaysSince(now, now))

	// Future instants floor toward minus infinity.
	assert.Equal(t, -1, clock.DaysSince(now.Add(time.Hour), now))
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, at, clock.Fixed{At: at}.Now())
}

func TestParseBirthday(t *testing.T) {
	tests := []struct {
		in    string
		month time.Month
		day   int
		ok    bool
	}{
		{"1990-05-14", time.May, 14, true},
		{"19900514", time.May, 14, true},
		{"1990-05-14T00:00:00Z", time.May, 14, true},
		{"--05-14", time.May, 14, true},
		{"--0514", time.May, 14, true},
		{"05-14", time.May, 14, true},
		{"--02-29", time.February, 29, true},
		{"", 0, 0, false},
		{"not a date", 0, 0, false},
		{"1990-13-40", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, d, ok := clock.ParseBirthday(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.month, m)
			assert.Equal(t, tt.day, d)
		})
	}
}

func TestIsBirthday_LeapDayFallsOnMarchFirst(t *testing.T) {
	assert.True(t, clock.IsBirthday(time.February, 29, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
	assert.False(t, clock.IsBirthday(time.February, 29, time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC)))
	assert.True(t, clock.IsBirthday(time.February, 29, time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)))
}

func TestNextBirthday(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), clock.NextBirthday(time.June, 15, now))
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), clock.NextBirthday(time.January, 2, now))
	assert.Equal(t, time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), clock.NextBirthday(time.December, 24, now))
}

func TestParseTimestamp(t *testing.T) {
	got, ok := clock.ParseTimestamp("2025-01-02T03:04:05Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), got)

	got, ok = clock.ParseTimestamp("2025-01-02T03:04:05.123Z")
	require.True(t, ok)
	assert.Equal(t, 123*int(time.Millisecond), got.Nanosecond())

	got, ok = clock.ParseTimestamp("2025-01-02")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), got)

	_, ok = clock.ParseTimestamp("yesterday-ish")
	assert.False(t, ok)
	_, ok = clock.ParseTimestamp("   ")
	assert.False(t, ok)
}
