package leave

import (
	"math"
	"time"
)

// NormalizeDate strips the time-of-day component, keeping only the calendar
// date in the value's own location. Two timestamps on the same calendar day
// normalize to the same instant.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CalculateLeaveDays returns the inclusive number of calendar days between
// start and end: the same date twice yields 1. Inputs are normalized to
// midnight first so embedded times and offsets never change the result.
func CalculateLeaveDays(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, ErrInvalidDate
	}

	s := NormalizeDate(start)
	e := NormalizeDate(end)

	if e.Before(s) {
		return 0, ErrInvalidRange
	}

	// Rounding instead of truncating keeps DST transitions from shaving a day
	// off spans that cross them.
	diffDays := int(math.Round(e.Sub(s).Hours() / 24))

	return diffDays + 1, nil
}
