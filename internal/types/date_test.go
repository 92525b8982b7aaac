package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("15.01.2024")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDaysInclusive(t *testing.T) {
	start, _ := ParseDate("2024-01-01")
	end, _ := ParseDate("2024-01-14")
	assert.Equal(t, 14, DaysInclusive(start, end))

	assert.Equal(t, 1, DaysInclusive(start, start), "single day interval counts one day")
}

func TestDatesOverlap(t *testing.T) {
	day := func(s string) time.Time {
		d, err := ParseDate(s)
		assert.NoError(t, err)
		return d
	}

	testCases := []struct {
		name     string
		aStart   string
		aEnd     string
		bStart   string
		bEnd     string
		expected bool
	}{
		{"disjoint", "2024-01-01", "2024-01-10", "2024-01-11", "2024-01-20", false},
		{"partial_overlap", "2024-01-01", "2024-01-14", "2024-01-10", "2024-01-20", true},
		{"contained", "2024-01-01", "2024-01-31", "2024-01-10", "2024-01-12", true},
		{"shared_boundary_day", "2024-01-01", "2024-01-10", "2024-01-10", "2024-01-20", true},
		{"identical", "2024-01-01", "2024-01-10", "2024-01-01", "2024-01-10", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DatesOverlap(day(tc.aStart), day(tc.aEnd), day(tc.bStart), day(tc.bEnd))
			assert.Equal(t, tc.expected, got)

			// Overlap is symmetric.
			assert.Equal(t, tc.expected, DatesOverlap(day(tc.bStart), day(tc.bEnd), day(tc.aStart), day(tc.aEnd)))
		})
	}
}
