package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayUTC_TruncatesTimeOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 14, 23, 59, 59, 123, time.UTC)
	day := DayUTC(ts)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), day)
}

func TestDayUTC_NormalizesZone(t *testing.T) {
	// 02:30 on March 15 in UTC+5 is still March 14 in UTC.
	almaty := time.FixedZone("UTC+5", 5*60*60)
	ts := time.Date(2026, 3, 15, 2, 30, 0, 0, almaty)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), DayUTC(ts))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 1, 10, 22, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}

func TestIsNextDay(t *testing.T) {
	d := time.Date(2026, 2, 28, 15, 0, 0, 0, time.UTC)

	assert.True(t, IsNextDay(d, time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)))
	assert.False(t, IsNextDay(d, d))
	assert.False(t, IsNextDay(d, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestDaysBetween(t *testing.T) {
	d := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(d, d.Add(5*time.Hour)))
	assert.Equal(t, 1, DaysBetween(d, d.AddDate(0, 0, 1)))
	assert.Equal(t, 3, DaysBetween(d, d.AddDate(0, 0, 3)))
	assert.Equal(t, -2, DaysBetween(d, d.AddDate(0, 0, -2)))
}

func TestFormatParseDay_RoundTrip(t *testing.T) {
	d := time.Date(2026, 7, 4, 18, 45, 0, 0, time.UTC)

	s := FormatDay(d)
	assert.Equal(t, "2026-07-04", s)

	parsed, err := ParseDay(s)
	assert.NoError(t, err)
	assert.Equal(t, DayUTC(d), parsed)
}
