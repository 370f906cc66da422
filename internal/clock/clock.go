// Package clock supplies the current instant and the day-granularity date
// arithmetic the scheduling code is built on.
package clock

import (
	"math"
	"strings"
	"time"
)

// Day is the length of one scheduling day.
const Day = 24 * time.Hour

// Clock supplies the current instant. Inject a Fixed clock in tests so due
// state and warmth are deterministic.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}

// DaysSince returns the number of whole days between from and now, floored.
// A contact reached 29.9 days ago has a DaysSince of 29. When from lies in
// the future the result is negative.
func DaysSince(from, now time.Time) int {
	return int(math.Floor(FractionalDays(from, now)))
}

// FractionalDays returns the elapsed time between from and now in days.
func FractionalDays(from, now time.Time) float64 {
	return float64(now.Sub(from)) / float64(Day)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BirthdayOn returns the occurrence of a month/day birthday in the given
// year. Feb 29 normalizes to Mar 1 in non-leap years.
func BirthdayOn(month time.Month, day, year int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// IsBirthday reports whether t falls on the birthday's occurrence in t's year.
func IsBirthday(month time.Month, day int, t time.Time) bool {
	occ := BirthdayOn(month, day, t.Year(), t.Location())
	y, m, d := t.Date()
	return occ.Year() == y && occ.Month() == m && occ.Day() == d
}

// NextBirthday returns the first occurrence of the birthday on or after the
// start of now's day.
func NextBirthday(month time.Month, day int, now time.Time) time.Time {
	today := StartOfDay(now)
	candidate := BirthdayOn(month, day, now.Year(), now.Location())
	if candidate.Before(today) {
		candidate = BirthdayOn(month, day, now.Year()+1, now.Location())
	}
	return candidate
}

var birthdayLayouts = []string{
	"2006-01-02",
	"20060102",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseBirthday extracts the month and day of a birthday string. The year is
// ignored. Accepts full dates, RFC 3339 and the vCard truncated forms
// --MM-DD and --MMDD, plus MM-DD.
func ParseBirthday(s string) (time.Month, int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	for _, layout := range birthdayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Month(), t.Day(), true
		}
	}
	trimmed := strings.TrimPrefix(s, "--")
	for _, layout := range []string{"01-02", "0102"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Month(), t.Day(), true
		}
	}
	return 0, 0, false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an instant in any of the accepted layouts. It
// reports false instead of failing on malformed input.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
