package core

import (
	"fmt"
	"time"
)

// Day arithmetic works on local calendar days: every timestamp is
// truncated to its own day before comparison, and pairing never looks
// across a day boundary.

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysBetween lists every calendar day from start through end inclusive,
// each normalized to midnight. An inverted range yields nil.
func DaysBetween(start, end time.Time) []time.Time {
	var days []time.Time
	for d := StartOfDay(start); !d.After(EndOfDay(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// FormatDate renders a day as yyyy-mm-dd.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatClock renders a timestamp's time of day as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

var spanishDayNames = [7]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

// DayName returns the Spanish weekday name used in the daily breakdown.
func DayName(t time.Time) string {
	return spanishDayNames[int(t.Weekday())]
}

// parseClock converts a wall-clock "HH:MM" string to minutes since
// midnight. Malformed values contribute zero rather than failing the
// whole aggregation.
func parseClock(s string) int {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0
	}
	return h*60 + m
}
