// Package timeutil provides UTC calendar-day utilities for the progression engine.
// Streak arithmetic compares activity dates by calendar day only; the explicit
// policy is the UTC day boundary, so every helper here normalizes to UTC first.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// FormatDate is the persisted date format (YYYY-MM-DD, no time-of-day).
const FormatDate = "2006-01-02"

// DayUTC truncates a time to the start of its UTC calendar day.
func DayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// TodayUTC returns the start of the current UTC day.
func TodayUTC() time.Time {
	return DayUTC(time.Now())
}

// SameDay reports whether two times fall on the same UTC calendar day.
func SameDay(t1, t2 time.Time) bool {
	a, b := t1.UTC(), t2.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// IsNextDay reports whether t2 is exactly the UTC day after t1.
func IsNextDay(t1, t2 time.Time) bool {
	return SameDay(DayUTC(t1).AddDate(0, 0, 1), t2)
}

// DaysBetween returns the signed number of whole UTC days from t1 to t2.
// Negative when t2 is earlier than t1 (clock skew handling is a caller concern).
func DaysBetween(t1, t2 time.Time) int {
	return int(DayUTC(t2).Sub(DayUTC(t1)).Hours() / 24)
}

// FormatDay renders a time as its UTC day string (YYYY-MM-DD).
func FormatDay(t time.Time) string {
	return DayUTC(t).Format(FormatDate)
}

// ParseDay parses a YYYY-MM-DD string as the start of that UTC day.
func ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, time.UTC)
}
