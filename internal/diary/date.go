package diary

import (
	"fmt"
	"time"
)

// DateFormat is the calendar date layout used across the diary, in files and
// in user-facing input/output.
const DateFormat = "2006-01-02"

// Day truncates t to its calendar day in UTC. All dates handed to the diary
// are normalized through this, so entries compare equal regardless of the
// clock time or zone they were produced with.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date string.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: expected format %s: %w", s, DateFormat, err)
	}
	return Day(t), nil
}

// FormatDay renders a date as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DateFormat)
}

func addDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}
