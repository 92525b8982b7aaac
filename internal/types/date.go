package types

import (
	"time"

	ierr "github.com/docflow/docflow/internal/errors"
)

// DateFormat is the wire format for document date ranges.
const DateFormat = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value into a UTC midnight time.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateFormat, raw)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("invalid date %q, expected format %s", raw, DateFormat).
			Mark(ierr.ErrValidation)
	}
	return t.UTC(), nil
}

// NormalizeDate truncates a timestamp to its UTC calendar day.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInclusive returns the number of calendar days covered by the inclusive
// interval [start, end]. Both bounds are normalized to UTC days first.
func DaysInclusive(start, end time.Time) int {
	start = NormalizeDate(start)
	end = NormalizeDate(end)
	return int(end.Sub(start).Hours()/24) + 1
}

// DatesOverlap reports whether two inclusive day intervals intersect.
func DatesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
