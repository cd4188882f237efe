package util

import "time"

// MonthStart returns midnight UTC on the first day of the month containing t
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthWindow returns the half-open range [start, end) covering the calendar
// month containing t
func MonthWindow(t time.Time) (start, end time.Time) {
	start = MonthStart(t)
	return start, start.AddDate(0, 1, 0)
}

// ComparisonWindow returns the half-open range [start, end) covering the
// calendar month containing t together with the month before it, so a single
// range query feeds a month-over-month comparison
func ComparisonWindow(t time.Time) (start, end time.Time) {
	first := MonthStart(t)
	return first.AddDate(0, -1, 0), first.AddDate(0, 1, 0)
}
