package utils

import (
	"time"
)

const DayFormat = "2006-01-02"

// ParseDay validates a calendar date in canonical YYYY-MM-DD form.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// MonthDays returns every date of the given month in order, respecting the
// actual month length (leap years included).
func MonthDays(year, month int) []string {
	d := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	var days []string
	for d.Month() == time.Month(month) {
		days = append(days, FormatDay(d))
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// MonthBounds returns the first and last date of the month. ISO dates sort
// lexicographically, so the pair is usable directly in a BETWEEN clause.
func MonthBounds(year, month int) (first, last string) {
	f := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	l := f.AddDate(0, 1, -1)
	return FormatDay(f), FormatDay(l)
}
