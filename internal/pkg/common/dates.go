package common

import "time"

// DateLayout is the calendar-date format used for plan days and run keys.
const DateLayout = "2006-01-02"

// FormatDate renders a time as a local calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a calendar date string. The zero time is returned on
// malformed input alongside the error.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// AddDays returns the calendar date n days after the given date string.
// Malformed input is returned unchanged.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return FormatDate(t.AddDate(0, 0, n))
}

// DaysBetween returns the whole number of days from b to a.
func DaysBetween(a, b time.Time) int {
	return int(a.Sub(b).Hours() / 24)
}
